package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/storage"
)

// Config holds settings for the file backend
type Config struct {
	// Dir is the directory holding the JSON documents
	Dir string
}

// DefaultConfig returns the default file storage configuration
func DefaultConfig() Config {
	return Config{
		Dir: "storage",
	}
}

// Storage keeps each document in its own pretty-printed JSON file.
// Files are replaced atomically so a crash never leaves a torn document.
type Storage struct {
	cfg    Config
	logger *slog.Logger
}

// New creates the data directory if needed and returns a file storage instance
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	if cfg.Dir == "" {
		cfg.Dir = DefaultConfig().Dir
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Storage{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "file_storage")),
	}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Path returns the file path of a document
func (s *Storage) Path(doc string) string {
	return filepath.Join(s.cfg.Dir, storage.FileName(doc))
}

func (s *Storage) Load(ctx context.Context) (*model.Snapshot, error) {
	docs := make(map[string][]byte, len(storage.Documents))
	for _, name := range storage.Documents {
		data, err := os.ReadFile(s.Path(name))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn("document could not be read, starting empty",
					slog.String("document", name),
					slog.String("error", err.Error()))
			}
			continue
		}
		docs[name] = data
	}
	return storage.Decode(docs, s.logger), nil
}

func (s *Storage) Save(ctx context.Context, snap *model.Snapshot) error {
	docs, err := storage.Encode(snap)
	if err != nil {
		return err
	}

	var errs []error
	for _, name := range storage.Documents {
		if err := atomic.WriteFile(s.Path(name), bytes.NewReader(docs[name])); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", storage.FileName(name), err))
		}
	}
	return errors.Join(errs...)
}

func (s *Storage) Close() error {
	return nil
}
