package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Every document lives under its own key; saves replace all of them in one MULTI/EXEC.
type Storage struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a new Redis storage instance
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = DefaultConfig().DialTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg, logger), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, logger *slog.Logger) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "redis_storage")),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) (*model.Snapshot, error) {
	keys := make([]string, len(storage.Documents))
	for i, name := range storage.Documents {
		keys[i] = documentKey(name)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	docs := make(map[string][]byte, len(values))
	for i, val := range values {
		if val == nil {
			continue
		}
		str, ok := val.(string)
		if !ok {
			s.logger.Warn("unexpected document value type",
				slog.String("document", storage.Documents[i]))
			continue
		}
		docs[storage.Documents[i]] = []byte(str)
	}

	return storage.Decode(docs, s.logger), nil
}

func (s *Storage) Save(ctx context.Context, snap *model.Snapshot) error {
	docs, err := storage.Encode(snap)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range storage.Documents {
			pipe.Set(ctx, documentKey(name), docs[name], 0)
		}
		pipe.Set(ctx, savedAtKey(), time.Now().UTC().Format(time.RFC3339Nano), 0)
		return nil
	})
	return err
}
