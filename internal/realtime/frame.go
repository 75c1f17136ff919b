package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/nightshift/internal/model"
)

// Frame is the envelope of every message in both directions
type Frame struct {
	Event model.EventType `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeFrame marshals an outbound event
func EncodeFrame(event model.EventType, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}

// DecodeFrame parses an inbound message
func DecodeFrame(msg []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(msg, &f); err != nil {
		return Frame{}, fmt.Errorf("%w: malformed frame", model.ErrInvalidPayload)
	}
	if f.Event == "" {
		return Frame{}, fmt.Errorf("%w: missing event name", model.ErrInvalidPayload)
	}
	return f, nil
}

// payload returns the frame data, treating an absent field as JSON null
func (f Frame) payload() json.RawMessage {
	if len(f.Data) == 0 {
		return json.RawMessage("null")
	}
	return f.Data
}
