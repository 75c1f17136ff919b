package storage

import (
	"context"

	"github.com/mcoot/nightshift/internal/model"
)

// Storage persists the server's shared state as a set of named JSON documents
type Storage interface {
	// Load reads every document that exists. A document that cannot be read
	// or decoded is skipped and its collection starts empty.
	Load(ctx context.Context) (*model.Snapshot, error)

	// Save replaces every document with the snapshot's contents
	Save(ctx context.Context, snap *model.Snapshot) error

	// Close releases any connections held by the backend
	Close() error
}
