package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/storage"
)

// MutateFunc changes the snapshot in place and reports whether anything changed
type MutateFunc func(snap *model.Snapshot) (dirty bool, err error)

// Store owns the authoritative snapshot. All access is serialized by one lock.
type Store struct {
	mu        sync.Mutex
	snap      *model.Snapshot
	backend   storage.Storage
	ephemeral bool
	logger    *slog.Logger
}

// New creates a store with an empty snapshot. Call Load to populate it.
func New(backend storage.Storage, ephemeral bool, logger *slog.Logger) *Store {
	return &Store{
		snap:      model.NewSnapshot(),
		backend:   backend,
		ephemeral: ephemeral,
		logger:    logger.With(slog.String("component", "state")),
	}
}

// Load replaces the snapshot with whatever the backend holds
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.logger.Info("state loaded",
		slog.Int("users", len(snap.Users)),
		slog.Int("comments", len(snap.Comments)),
		slog.Int("messages", len(snap.Messages)),
		slog.Int("requests", len(snap.Requests)))
	return nil
}

// Mutate runs fn under the lock and persists the snapshot if fn marked it dirty.
// The save runs even when fn also returned an error, so partial changes such
// as a violation counted before a ban rejection are not lost.
func (s *Store) Mutate(ctx context.Context, fn MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dirty, err := fn(s.snap)
	if dirty {
		s.persistLocked(ctx)
	}
	return err
}

// Read runs fn under the lock without persisting
func (s *Store) Read(fn func(snap *model.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snap)
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Persist saves the current snapshot
func (s *Store) Persist(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked(ctx)
}

// Ephemeral reports whether saves are skipped
func (s *Store) Ephemeral() bool {
	return s.ephemeral
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.ephemeral {
		return
	}
	if err := s.backend.Save(ctx, s.snap); err != nil {
		s.logger.Error("failed to save state", slog.String("error", err.Error()))
	}
}
