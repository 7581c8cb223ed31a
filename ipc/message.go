package ipc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message is one event on the bridge. ID is set on questions and echoed back
// by their REPLY.
type Message struct {
	ID    string            `json:"id,omitempty"`
	Event string            `json:"event"`
	Args  []json.RawMessage `json:"args,omitempty"`
}

// NewMessage encodes args into a Message.
func NewMessage(event string, args ...any) (Message, error) {
	msg := Message{Event: event}
	for i, a := range args {
		raw, err := json.Marshal(a)
		if err != nil {
			return Message{}, fmt.Errorf("failed to encode arg %d of %s: %w", i, event, err)
		}
		msg.Args = append(msg.Args, raw)
	}
	return msg, nil
}

// StringArg returns argument i if it is a JSON string. null is not a string.
func (m Message) StringArg(i int) (string, bool) {
	if i >= len(m.Args) || isNull(m.Args[i]) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(m.Args[i], &s); err != nil {
		return "", false
	}
	return s, true
}

// BoolArg returns argument i if it is a JSON boolean.
func (m Message) BoolArg(i int) (bool, bool) {
	if i >= len(m.Args) || isNull(m.Args[i]) {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(m.Args[i], &b); err != nil {
		return false, false
	}
	return b, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
