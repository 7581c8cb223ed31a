// Package ipc is the process-wide event channel between the file manager and
// its front ends. Inbound events are dispatched to handlers registered with
// On; outbound events are fanned out to every subscribed client.
package ipc

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNoClient = errors.New("no client connected to the bridge")

// Handler handles one inbound event.
type Handler func(ctx context.Context, msg Message)

// Bridge is safe for concurrent use.
type Bridge struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	clients  map[chan Message]struct{}
	pending  map[string]chan Message
	log      logrus.FieldLogger
}

func NewBridge(log logrus.FieldLogger) *Bridge {
	return &Bridge{
		handlers: make(map[string][]Handler),
		clients:  make(map[chan Message]struct{}),
		pending:  make(map[string]chan Message),
		log:      log,
	}
}

// On registers h for inbound event.
func (b *Bridge) On(event string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], h)
}

// Emit dispatches an inbound message. Handlers run in order on the calling
// goroutine. A REPLY is routed to the question waiting for it instead.
func (b *Bridge) Emit(ctx context.Context, msg Message) {
	if msg.Event == Reply {
		b.deliverReply(msg)
		return
	}

	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[msg.Event]...)
	b.mu.RUnlock()

	if len(hs) == 0 {
		b.log.WithField("event", msg.Event).Debug("no handler for inbound event")
		return
	}
	for _, h := range hs {
		h(ctx, msg)
	}
}

// Subscribe registers ch to receive outbound messages. Sends never block: a
// client whose buffer is full misses the message.
func (b *Bridge) Subscribe(ch chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[ch] = struct{}{}
}

// Unsubscribe removes ch and closes it so its pump goroutine exits.
func (b *Bridge) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	_, ok := b.clients[ch]
	delete(b.clients, ch)
	b.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Clients returns the number of subscribed clients.
func (b *Bridge) Clients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Send broadcasts an outbound event.
func (b *Bridge) Send(event string, args ...any) error {
	msg, err := NewMessage(event, args...)
	if err != nil {
		return err
	}
	b.broadcast(msg)
	return nil
}

func (b *Bridge) broadcast(msg Message) {
	// Hold the read lock while sending so Unsubscribe cannot close a
	// channel mid-send.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients {
		select {
		case ch <- msg:
		default:
			b.log.WithField("event", msg.Event).Warn("dropping message for slow bridge client")
		}
	}
}

// Ask sends a question and waits for the first REPLY carrying its id.
func (b *Bridge) Ask(ctx context.Context, event string, args ...any) (Message, error) {
	msg, err := NewMessage(event, args...)
	if err != nil {
		return Message{}, err
	}
	if b.Clients() == 0 {
		return Message{}, ErrNoClient
	}
	msg.ID = uuid.New().String()

	replyCh := make(chan Message, 1)
	b.mu.Lock()
	b.pending[msg.ID] = replyCh
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.pending, msg.ID)
		b.mu.Unlock()
	}()

	b.broadcast(msg)

	select {
	case reply := <-replyCh:
		return reply, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (b *Bridge) deliverReply(msg Message) {
	b.mu.RLock()
	ch, ok := b.pending[msg.ID]
	b.mu.RUnlock()
	if !ok {
		b.log.WithField("id", msg.ID).Debug("reply for unknown question")
		return
	}
	select {
	case ch <- msg:
	default:
	}
}
