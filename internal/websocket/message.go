package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message is the envelope used in both directions.
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

var emptyData = json.RawMessage(`{}`)

// Encode wraps payload into an envelope for event.
func Encode(event string, payload interface{}) ([]byte, error) {
	msg := Message{
		Type:      event,
		Data:      emptyData,
		Timestamp: time.Now(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
		msg.Data = data
	}
	return json.Marshal(msg)
}

// decode parses an inbound frame. The client's timestamp is ignored and
// replaced with the receive time.
func decode(frame []byte) (*Message, error) {
	var in struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(frame, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if in.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}
	return &Message{Type: in.Type, Data: in.Data, Timestamp: time.Now()}, nil
}
