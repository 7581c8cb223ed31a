package api

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"fiddle-server/ipc"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: allowedOrigin,
}

// handleBridgeWS attaches a front end to the IPC bridge. Outbound events are
// written as they are sent; every inbound message is emitted on its own
// goroutine so a handler waiting on a REPLY does not block the read loop.
func (h *handler) handleBridgeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.WithError(err).Warn("bridge websocket upgrade failed")
		return
	}
	defer conn.Close()

	out := make(chan ipc.Message, 256)
	h.Bridge.Subscribe(out)
	defer h.Bridge.Unsubscribe(out)

	// Sole writer. Exits when Unsubscribe closes out.
	go func() {
		for msg := range out {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}()

	ctx := context.WithoutCancel(r.Context())
	for {
		var msg ipc.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Event == "" {
			continue
		}
		go h.Bridge.Emit(ctx, msg)
	}
}
