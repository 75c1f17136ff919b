package realtime

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // the game client is served from arbitrary origins
	},
}

// ServeHTTP upgrades the request and runs the session until it disconnects
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	s := NewSession(conn, r.cfg, r.logger)
	r.Connect(s)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.writePump(s)
	}()

	r.readPump(s)
	r.Disconnect(s)
	<-done
}

func (r *Router) readPump(s *Session) {
	defer func() {
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(r.cfg.MaxMessageBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(r.cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(r.cfg.PongWait))
	})

	ctx := context.Background()
	for {
		msgType, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				!errors.Is(err, websocket.ErrReadLimit) {
				s.logger.Debug("websocket read error", slog.String("error", err.Error()))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		r.Dispatch(ctx, s, msg)
	}
}

func (r *Router) writePump(s *Session) {
	ticker := time.NewTicker(r.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(r.cfg.WriteWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("websocket write error", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(r.cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
