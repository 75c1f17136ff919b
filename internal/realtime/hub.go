package realtime

import (
	"log/slog"
	"sync"

	"github.com/mcoot/nightshift/internal/model"
)

// GroupForUser returns the delivery group of every session bound to username
func GroupForUser(username string) string {
	return "user_" + username
}

// Hub tracks live sessions and their delivery groups
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	groups   map[string]map[string]*Session
	logger   *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		groups:   make(map[string]map[string]*Session),
		logger:   logger.With(slog.String("component", "hub")),
	}
}

// Register adds a session with no identity
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	h.sessions[s.id] = s
	count := len(h.sessions)
	h.mu.Unlock()

	h.logger.Info("session connected", slog.String("session", s.id), slog.Int("sessions", count))
}

// Unregister removes a session and all of its group memberships
func (h *Hub) Unregister(s *Session) {
	username := s.Username()
	groups := s.close()

	h.mu.Lock()
	delete(h.sessions, s.id)
	for _, g := range groups {
		members := h.groups[g]
		delete(members, s.id)
		if len(members) == 0 {
			delete(h.groups, g)
		}
	}
	count := len(h.sessions)
	h.mu.Unlock()

	h.logger.Info("session disconnected",
		slog.String("session", s.id),
		slog.String("username", username),
		slog.Int("sessions", count))
}

// Bind associates the session with username and joins the user's group.
// Earlier groups are kept until disconnect.
func (h *Hub) Bind(s *Session, username string) {
	group := GroupForUser(username)
	s.bind(username, group)

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s.id]; !ok {
		return
	}
	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]*Session)
		h.groups[group] = members
	}
	members[s.id] = s
}

// Broadcast sends an event to every session
func (h *Hub) Broadcast(event model.EventType, data any) {
	msg, ok := h.encode(event, data)
	if !ok {
		return
	}
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	h.deliver(targets, event, msg)
}

// SendToUser sends an event to every session in the user's group
func (h *Hub) SendToUser(username string, event model.EventType, data any) {
	msg, ok := h.encode(event, data)
	if !ok {
		return
	}
	h.mu.RLock()
	members := h.groups[GroupForUser(username)]
	targets := make([]*Session, 0, len(members))
	for _, s := range members {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	h.deliver(targets, event, msg)
}

// Send sends an event to one session
func (h *Hub) Send(s *Session, event model.EventType, data any) {
	msg, ok := h.encode(event, data)
	if !ok {
		return
	}
	h.deliver([]*Session{s}, event, msg)
}

// SessionCount returns the number of connected sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GroupSize returns the number of sessions bound to username
func (h *Hub) GroupSize(username string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[GroupForUser(username)])
}

// OnlineUsers returns the usernames with at least one bound session
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[string]bool)
	users := []string{}
	for _, s := range h.sessions {
		if name := s.Username(); name != "" && !seen[name] {
			seen[name] = true
			users = append(users, name)
		}
	}
	return users
}

func (h *Hub) encode(event model.EventType, data any) ([]byte, bool) {
	msg, err := EncodeFrame(event, data)
	if err != nil {
		h.logger.Error("failed to encode event", slog.String("event", string(event)), slog.String("error", err.Error()))
		return nil, false
	}
	return msg, true
}

func (h *Hub) deliver(targets []*Session, event model.EventType, msg []byte) {
	for _, s := range targets {
		if !s.enqueue(msg) {
			h.logger.Warn("dropped outbound event",
				slog.String("session", s.id),
				slog.String("event", string(event)))
		}
	}
}
