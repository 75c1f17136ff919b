package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Session is one client connection. It starts without an identity and is
// bound to a username by register_user.
type Session struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	logger  *slog.Logger

	mu       sync.Mutex
	username string
	groups   map[string]struct{}
	closed   bool
}

// NewSession creates a session for conn. conn may be nil in tests.
func NewSession(conn *websocket.Conn, cfg Config, logger *slog.Logger) *Session {
	cfg = cfg.withDefaults()
	id := uuid.NewString()
	return &Session{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, cfg.SendBuffer),
		limiter: rate.NewLimiter(rate.Limit(cfg.EventsPerSecond), cfg.EventBurst),
		logger:  logger.With(slog.String("session", id)),
		groups:  make(map[string]struct{}),
	}
}

// ID returns the session's unique id
func (s *Session) ID() string {
	return s.id
}

// Username returns the bound username, or "" before registration
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Outbox exposes queued outbound frames
func (s *Session) Outbox() <-chan []byte {
	return s.send
}

// allow reports whether the session may process another inbound event
func (s *Session) allow() bool {
	return s.limiter.Allow()
}

// enqueue queues msg without blocking. It returns false if the buffer is
// full or the session is closed.
func (s *Session) enqueue(msg []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

func (s *Session) bind(username, group string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.username = username
	s.groups[group] = struct{}{}
}

// close marks the session closed and returns the groups it belonged to
func (s *Session) close() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.send)

	groups := make([]string, 0, len(s.groups))
	for g := range s.groups {
		groups = append(groups, g)
	}
	s.groups = map[string]struct{}{}
	s.username = ""
	return groups
}
