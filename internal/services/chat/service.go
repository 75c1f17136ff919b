package chat

import (
	"context"
	"log/slog"

	"github.com/mcoot/nightshift/internal/dependencies/clock"
	"github.com/mcoot/nightshift/internal/dependencies/random"
	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/services/moderation"
	"github.com/mcoot/nightshift/internal/state"
)

// Service handles the global comment feed and private messages
type Service struct {
	store      *state.Store
	moderation *moderation.Engine
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
}

// New creates a new chat service
func New(
	store *state.Store,
	moderation *moderation.Engine,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:      store,
		moderation: moderation,
		clock:      clock,
		random:     random,
		logger:     logger.With(slog.String("component", "chat")),
	}
}

// PostComment censors and appends a comment to the feed.
// Banned authors get a *moderation.BanError and nothing is posted.
func (s *Service) PostComment(ctx context.Context, c model.Comment) (model.Comment, error) {
	err := s.store.Mutate(ctx, func(snap *model.Snapshot) (bool, error) {
		if changed, err := s.moderation.Check(&snap.Ledger, c.Username); err != nil {
			return changed, err
		}

		verdict := s.moderation.Censor(&snap.Ledger, c.Text, c.Username)
		c.Text = verdict.Text
		if c.ID == "" {
			c.ID = s.random.ID()
		}
		if c.Timestamp == 0 {
			c.Timestamp = clock.Millis(s.clock)
		}

		snap.Comments = append(snap.Comments, c)
		if over := len(snap.Comments) - model.MaxComments; over > 0 {
			snap.Comments = append([]model.Comment(nil), snap.Comments[over:]...)
		}
		return true, nil
	})
	if err != nil {
		return model.Comment{}, err
	}
	s.logger.Debug("comment posted", slog.String("id", c.ID), slog.String("username", c.Username))
	return c, nil
}

// SendPrivateMessage censors and stores a direct message
func (s *Service) SendPrivateMessage(ctx context.Context, m model.PrivateMessage) (model.PrivateMessage, error) {
	err := s.store.Mutate(ctx, func(snap *model.Snapshot) (bool, error) {
		if changed, err := s.moderation.Check(&snap.Ledger, m.From); err != nil {
			return changed, err
		}

		m.Text = s.moderation.Censor(&snap.Ledger, m.Text, m.From).Text
		if m.ID == "" {
			m.ID = s.random.ID()
		}
		if m.Timestamp == 0 {
			m.Timestamp = clock.Millis(s.clock)
		}

		snap.Messages = append(snap.Messages, m)
		return true, nil
	})
	if err != nil {
		return model.PrivateMessage{}, err
	}
	s.logger.Debug("private message sent", slog.String("id", m.ID), slog.String("from", m.From), slog.String("to", m.To))
	return m, nil
}

// Conversation returns the messages exchanged by a and b, in send order
func (s *Service) Conversation(a, b string) []model.PrivateMessage {
	out := []model.PrivateMessage{}
	s.store.Read(func(snap *model.Snapshot) {
		for _, m := range snap.Messages {
			if m.Between(a, b) {
				out = append(out, m)
			}
		}
	})
	return out
}

// Comments returns a copy of the comment feed, oldest first
func (s *Service) Comments() []model.Comment {
	var out []model.Comment
	s.store.Read(func(snap *model.Snapshot) {
		out = append([]model.Comment{}, snap.Comments...)
	})
	return out
}
