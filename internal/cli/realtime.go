package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Frame is the realtime message envelope
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EventError is the data of an "error" frame
type EventError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Conn is a realtime connection to the server
type Conn struct {
	conn *websocket.Conn
}

// Dial opens the realtime endpoint
func Dial(ctx context.Context, wsURL string) (*Conn, error) {
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	// avatar data URLs make frames large
	conn.SetReadLimit(4 << 20)
	return &Conn{conn: conn}, nil
}

// Send emits an event
func (c *Conn) Send(ctx context.Context, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", event, err)
	}
	return wsjson.Write(ctx, c.conn, Frame{Event: event, Data: raw})
}

// Next blocks until the next frame arrives
func (c *Conn) Next(ctx context.Context) (Frame, error) {
	var f Frame
	if err := wsjson.Read(ctx, c.conn, &f); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Await reads frames until one of the given events arrives. An "error" frame
// is returned as an error.
func (c *Conn) Await(ctx context.Context, events ...string) (Frame, error) {
	for {
		f, err := c.Next(ctx)
		if err != nil {
			return Frame{}, err
		}
		if f.Event == "error" {
			var e EventError
			_ = json.Unmarshal(f.Data, &e)
			return Frame{}, fmt.Errorf("%s (%s)", e.Message, e.Code)
		}
		for _, want := range events {
			if f.Event == want {
				return f, nil
			}
		}
	}
}

// Register binds the connection to a username
func (c *Conn) Register(ctx context.Context, username, password string) error {
	payload := map[string]string{"username": username}
	if password != "" {
		payload["password"] = password
	}
	if err := c.Send(ctx, "register_user", payload); err != nil {
		return err
	}
	_, err := c.Await(ctx, "profile_sync")
	return err
}

// Close shuts the connection down cleanly
func (c *Conn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// IsClosed reports whether err is a normal end of the connection
func IsClosed(err error) bool {
	return websocket.CloseStatus(err) != -1
}
