package memory

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are kept encoded so that loads go through the same decoding as
// the durable backends.
type Storage struct {
	mu     sync.RWMutex
	docs   map[string][]byte
	saves  int
	logger *slog.Logger
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		docs:   make(map[string][]byte),
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return storage.Decode(s.docs, s.logger), nil
}

func (s *Storage) Save(ctx context.Context, snap *model.Snapshot) error {
	docs, err := storage.Encode(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for name, data := range docs {
		s.docs[name] = data
	}
	s.saves++
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// Document returns the raw bytes of a saved document
func (s *Storage) Document(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[name]
	return data, ok
}

// PutDocument stores raw bytes for a document, bypassing encoding
func (s *Storage) PutDocument(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = data
}

// SaveCount returns how many times Save has been called
func (s *Storage) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
