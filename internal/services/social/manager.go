package social

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/services/moderation"
	"github.com/mcoot/nightshift/internal/state"
)

// Manager maintains friend requests. Records are never deleted; friendship
// is derived from accepted requests.
type Manager struct {
	store      *state.Store
	moderation *moderation.Engine
	logger     *slog.Logger
}

// New creates a new social graph manager
func New(store *state.Store, moderation *moderation.Engine, logger *slog.Logger) *Manager {
	return &Manager{
		store:      store,
		moderation: moderation,
		logger:     logger.With(slog.String("component", "social")),
	}
}

// SendRequest creates a pending request from one user to another.
// created is false when the request was dropped: the sender is banned, or
// the pair already has a pending or accepted request.
func (m *Manager) SendRequest(ctx context.Context, from, to string) (req model.FriendRequest, created bool, err error) {
	if from == to {
		return model.FriendRequest{}, false, model.ErrSelfFriendRequest
	}

	err = m.store.Mutate(ctx, func(snap *model.Snapshot) (bool, error) {
		changed, banErr := m.moderation.Check(&snap.Ledger, from)
		if banErr != nil {
			m.logger.Debug("dropped friend request from banned user", slog.String("from", from))
			return changed, nil
		}
		if _, ok := snap.Users[to]; !ok {
			return changed, model.ErrUserNotFound
		}

		for i := range snap.Requests {
			existing := &snap.Requests[i]
			if !existing.Involves(from, to) {
				continue
			}
			if existing.Status != model.FriendRequestRejected {
				return changed, nil
			}
			// a rejected pair may try again; reuse the record
			existing.From = from
			existing.To = to
			existing.Status = model.FriendRequestPending
			req = *existing
			created = true
			return true, nil
		}

		req = model.FriendRequest{From: from, To: to, Status: model.FriendRequestPending}
		snap.Requests = append(snap.Requests, req)
		created = true
		return true, nil
	})
	if created {
		m.logger.Info("friend request sent", slog.String("from", from), slog.String("to", to))
	}
	return req, created, err
}

// Respond sets the status of the request sent by from to to.
// A missing request is not an error; matched reports whether one was found.
func (m *Manager) Respond(ctx context.Context, from, to string, status model.FriendRequestStatus) (matched bool, err error) {
	if status != model.FriendRequestAccepted && status != model.FriendRequestRejected {
		return false, model.ErrInvalidPayload
	}

	err = m.store.Mutate(ctx, func(snap *model.Snapshot) (bool, error) {
		for i := range snap.Requests {
			r := &snap.Requests[i]
			if r.From == from && r.To == to {
				r.Status = status
				matched = true
				return true, nil
			}
		}
		return false, nil
	})
	if matched {
		m.logger.Info("friend request answered",
			slog.String("from", from),
			slog.String("to", to),
			slog.String("status", string(status)))
	}
	return matched, err
}

// Friends lists the users with an accepted request involving username, sorted
func (m *Manager) Friends(username string) []string {
	friends := []string{}
	m.store.Read(func(snap *model.Snapshot) {
		seen := make(map[string]bool)
		for _, r := range snap.Requests {
			if r.Status != model.FriendRequestAccepted {
				continue
			}
			if r.From != username && r.To != username {
				continue
			}
			other := r.Other(username)
			if !seen[other] {
				seen[other] = true
				friends = append(friends, other)
			}
		}
	})
	sort.Strings(friends)
	return friends
}

// Requests returns every request involving username
func (m *Manager) Requests(username string) []model.FriendRequest {
	out := []model.FriendRequest{}
	m.store.Read(func(snap *model.Snapshot) {
		for _, r := range snap.Requests {
			if r.From == username || r.To == username {
				out = append(out, r)
			}
		}
	})
	return out
}
