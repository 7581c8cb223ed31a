package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"fiddle-server/run"
)

// termMessage is one frame on a run's attach websocket. Data is base64.
type termMessage struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
	Cols uint16 `json:"cols,omitempty"`
	Rows uint16 `json:"rows,omitempty"`
}

func outputMessage(p []byte) termMessage {
	return termMessage{Type: "output", Data: base64.StdEncoding.EncodeToString(p)}
}

func (h *handler) listRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Runs.List())
}

func (h *handler) startRun(w http.ResponseWriter, r *http.Request) {
	rn, err := h.Runs.Start(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("failed to start fiddle")
		http.Error(w, "failed to start fiddle", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rn)
}

func (h *handler) stopRun(w http.ResponseWriter, r *http.Request) {
	err := h.Runs.Stop(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, run.ErrNotFound):
		http.Error(w, "run not found", http.StatusNotFound)
	case err != nil:
		http.Error(w, "failed to stop run", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// attachment is one websocket client attached to a run.
type attachment struct {
	conn *websocket.Conn
	run  *run.Run
	log  logrus.FieldLogger

	mu sync.Mutex // one writer at a time
}

func (a *attachment) send(msg termMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conn.WriteJSON(msg)
}

// forward writes live output until ClearClient closes out.
func (a *attachment) forward(out <-chan []byte) {
	for p := range out {
		if err := a.send(outputMessage(p)); err != nil {
			return
		}
	}
}

// watch closes the connection when the run ends or a newer client takes
// over, which unblocks the read loop. Only the first case says "closed".
func (a *attachment) watch(kick <-chan struct{}, stop <-chan struct{}) {
	select {
	case <-a.run.Done():
		_ = a.send(termMessage{Type: "closed"})
		a.conn.Close()
	case <-kick:
		a.conn.Close()
	case <-stop:
	}
}

// input applies a client frame to the run. It returns false when the
// connection should be dropped.
func (a *attachment) input(msg termMessage) bool {
	switch msg.Type {
	case "input":
		data, err := base64.StdEncoding.DecodeString(msg.Data)
		if err != nil {
			return true
		}
		if _, err := a.run.WriteInput(data); err != nil {
			a.log.WithError(err).Warn("pty write failed")
			return false
		}
	case "resize":
		if msg.Cols == 0 || msg.Rows == 0 {
			return true
		}
		if err := a.run.Resize(msg.Cols, msg.Rows); err != nil {
			a.log.WithError(err).Debug("pty resize failed")
		}
	}
	return true
}

func (h *handler) handleRunWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rn, ok := h.Runs.Get(id)
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.WithError(err).Warn("run websocket upgrade failed")
		return
	}
	defer conn.Close()

	a := &attachment{conn: conn, run: rn, log: h.Log.WithField("run", id)}

	out := make(chan []byte, 256)
	kick := rn.SetClient(out)
	defer rn.ClearClient(out)

	if snap := rn.ScrollbackSnapshot(); len(snap) > 0 {
		if err := a.send(outputMessage(snap)); err != nil {
			return
		}
	}

	stop := make(chan struct{})
	defer close(stop)
	go a.forward(out)
	go a.watch(kick, stop)

	for {
		var msg termMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if !a.input(msg) {
			return
		}
	}
}
