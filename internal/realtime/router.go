package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/nightshift/internal/api/apierr"
	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/services/chat"
	"github.com/mcoot/nightshift/internal/services/moderation"
	"github.com/mcoot/nightshift/internal/services/profile"
	"github.com/mcoot/nightshift/internal/services/social"
)

// HandlerFunc processes one inbound event for a session
type HandlerFunc func(ctx context.Context, s *Session, data json.RawMessage) error

// RouterConfig holds the dependencies of the event router
type RouterConfig struct {
	Logger    *slog.Logger
	Hub       *Hub
	Validator *Validator
	Profiles  *profile.Service
	Social    *social.Manager
	Chat      *chat.Service
	Realtime  Config
}

// Router dispatches inbound events to their handlers
type Router struct {
	hub       *Hub
	validator *Validator
	profiles  *profile.Service
	social    *social.Manager
	chat      *chat.Service
	cfg       Config
	handlers  map[model.EventType]HandlerFunc
	logger    *slog.Logger
}

// NewRouter creates a router with every inbound event registered
func NewRouter(cfg RouterConfig) *Router {
	r := &Router{
		hub:       cfg.Hub,
		validator: cfg.Validator,
		profiles:  cfg.Profiles,
		social:    cfg.Social,
		chat:      cfg.Chat,
		cfg:       cfg.Realtime.withDefaults(),
		logger:    cfg.Logger.With(slog.String("component", "router")),
	}

	r.handlers = map[model.EventType]HandlerFunc{
		model.EventRegisterUser:         r.handleRegisterUser,
		model.EventUpdateProfile:        r.handleUpdateProfile,
		model.EventGetAllUsers:          r.handleGetAllUsers,
		model.EventSearchUsers:          r.handleSearchUsers,
		model.EventSendComment:          r.handleSendComment,
		model.EventSendFriendRequest:    r.handleSendFriendRequest,
		model.EventRespondFriendRequest: r.handleRespondFriendRequest,
		model.EventSendPrivateMessage:   r.handleSendPrivateMessage,
		model.EventGetPrivateMessages:   r.handleGetPrivateMessages,
	}
	return r
}

// Hub returns the session registry
func (r *Router) Hub() *Hub {
	return r.hub
}

// Connect registers a new session and sends it the comment backlog
func (r *Router) Connect(s *Session) {
	r.hub.Register(s)
	r.hub.Send(s, model.EventInitComments, r.chat.Comments())
}

// Disconnect drops the session and its identity
func (r *Router) Disconnect(s *Session) {
	r.hub.Unregister(s)
}

// Dispatch handles one raw inbound message
func (r *Router) Dispatch(ctx context.Context, s *Session, msg []byte) {
	if !s.allow() {
		r.sendError(s, "", model.ErrRateLimited)
		return
	}

	frame, err := DecodeFrame(msg)
	if err != nil {
		r.sendError(s, "", err)
		return
	}

	handler, ok := r.handlers[frame.Event]
	if !ok {
		r.sendError(s, frame.Event, fmt.Errorf("%w: %s", model.ErrUnknownEvent, frame.Event))
		return
	}

	data := frame.payload()
	if err := r.validator.Validate(frame.Event, data); err != nil {
		r.sendError(s, frame.Event, err)
		return
	}

	r.logger.Debug("dispatching event",
		slog.String("session", s.ID()),
		slog.String("event", string(frame.Event)))

	if err := handler(ctx, s, data); err != nil {
		r.sendError(s, frame.Event, err)
	}
}

func (r *Router) sendError(s *Session, event model.EventType, err error) {
	apiErr := apierr.Lookup(err)
	level := slog.LevelInfo
	if apiErr.Code == apierr.CodeInternalError {
		level = slog.LevelError
	}
	r.logger.Log(context.Background(), level, "event failed",
		slog.String("session", s.ID()),
		slog.String("event", string(event)),
		slog.String("code", apiErr.Code),
		slog.String("error", err.Error()))

	r.hub.Send(s, model.EventError, model.ErrorPayload{Code: apiErr.Code, Message: apiErr.Message})
}

// requireIdentity checks that the session is registered as username
func requireIdentity(s *Session, username string) error {
	bound := s.Username()
	if bound == "" {
		return model.ErrNotRegistered
	}
	if bound != username {
		return model.ErrIdentityMismatch
	}
	return nil
}

func decode(data json.RawMessage, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidPayload, err)
	}
	return nil
}

// sendBanNotice answers a banned author with the plain-text notice.
// Returns false if err is not a ban.
func (r *Router) sendBanNotice(s *Session, err error) bool {
	be, ok := moderation.AsBanError(err)
	if !ok {
		return false
	}
	r.hub.Send(s, model.EventBannedNotice, be.Error())
	return true
}

func isProfileError(err error) bool {
	return errors.Is(err, model.ErrUsernameTaken) || errors.Is(err, model.ErrUserNotFound)
}
