package run

import (
	"encoding/json"
	"os"
	"os/exec"
	"sync"
	"time"
)

const maxScrollback = 1 << 20 // 1MB

// Run is a staged fiddle running under a pty.
type Run struct {
	ID        string
	Dir       string
	Command   []string
	StartedAt time.Time

	connected  bool
	cmd        *exec.Cmd
	ptmx       *os.File
	scrollback *scrollbackBuf
	outChan    chan []byte
	kickChan   chan struct{}
	outMu      sync.Mutex
	done       chan struct{}
}

type scrollbackBuf struct {
	mu   sync.Mutex
	data []byte
	max  int
}

func newScrollbackBuf() *scrollbackBuf {
	return &scrollbackBuf{max: maxScrollback}
}

func (s *scrollbackBuf) Write(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, p...)
	if len(s.data) > s.max {
		excess := len(s.data) - s.max
		s.data = s.data[excess:]
	}
}

func (s *scrollbackBuf) Snapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == 0 {
		return nil
	}
	cp := make([]byte, len(s.data))
	copy(cp, s.data)
	return cp
}

// SetClient registers a channel to receive live output. A previously attached
// client is kicked: its kick channel is closed so its connection can be shut.
// Returns the kick channel of the new client.
func (r *Run) SetClient(ch chan []byte) <-chan struct{} {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	if r.kickChan != nil {
		close(r.kickChan)
	}
	kick := make(chan struct{})
	r.kickChan = kick
	r.outChan = ch
	r.connected = true
	return kick
}

// ClearClient detaches ch if it is still the current client, and always
// closes it so the pump goroutine exits.
func (r *Run) ClearClient(ch chan []byte) {
	r.outMu.Lock()
	if r.outChan == ch {
		r.outChan = nil
		r.connected = false
		r.kickChan = nil
	}
	r.outMu.Unlock()
	close(ch)
}

// publish records p in the scrollback and forwards it to the attached client
// without blocking.
func (r *Run) publish(p []byte) {
	r.scrollback.Write(p)
	r.outMu.Lock()
	defer r.outMu.Unlock()
	if r.outChan != nil {
		select {
		case r.outChan <- p:
		default:
		}
	}
}

// Connected reports whether a client is attached.
func (r *Run) Connected() bool {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	return r.connected
}

// MarshalJSON encodes the run with a consistent view of its client state.
func (r *Run) MarshalJSON() ([]byte, error) {
	type view struct {
		ID        string    `json:"id"`
		Dir       string    `json:"dir"`
		Command   []string  `json:"command"`
		StartedAt time.Time `json:"started_at"`
		Connected bool      `json:"connected"`
	}
	return json.Marshal(view{
		ID:        r.ID,
		Dir:       r.Dir,
		Command:   r.Command,
		StartedAt: r.StartedAt,
		Connected: r.Connected(),
	})
}

// ScrollbackSnapshot returns a copy of the scrollback buffer.
func (r *Run) ScrollbackSnapshot() []byte {
	return r.scrollback.Snapshot()
}

// Done returns a channel that is closed when the process exits.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// WriteInput writes input bytes to the pty master.
func (r *Run) WriteInput(p []byte) (int, error) {
	return r.ptmx.Write(p)
}

