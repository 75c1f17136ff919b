package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/nightshift/internal/dependencies/clock"
	"github.com/mcoot/nightshift/internal/dependencies/random"
	"github.com/mcoot/nightshift/internal/realtime"
	"github.com/mcoot/nightshift/internal/services/chat"
	"github.com/mcoot/nightshift/internal/services/moderation"
	"github.com/mcoot/nightshift/internal/services/profile"
	"github.com/mcoot/nightshift/internal/services/social"
	"github.com/mcoot/nightshift/internal/state"
	"github.com/mcoot/nightshift/internal/storage"
	"github.com/mcoot/nightshift/internal/storage/database"
	filestorage "github.com/mcoot/nightshift/internal/storage/file"
	"github.com/mcoot/nightshift/internal/storage/memory"
	redisstorage "github.com/mcoot/nightshift/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeFile     = "file"
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeDatabase = "database"
)

// LoadTimeout bounds the initial state load
const LoadTimeout = 30 * time.Second

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Store   *state.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	Moderation *moderation.Engine
	Profiles   *profile.Service
	Social     *social.Manager
	Chat       *chat.Service

	// Realtime
	Hub      *realtime.Hub
	Realtime *realtime.Router
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// FileConfig holds the data directory (optional for "file")
	FileConfig *filestorage.Config
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// DatabaseConfig holds SQL settings (required if StorageType is "database")
	DatabaseConfig *database.Config
	// Ephemeral skips every save
	Ephemeral bool
	// ModerationConfig overrides the moderation policy (optional)
	ModerationConfig *moderation.Config
	// ProfileConfig holds password hashing settings (optional)
	ProfileConfig profile.Config
	// RealtimeConfig holds connection settings (optional)
	RealtimeConfig realtime.Config
}

// New creates a new application with all dependencies wired and state loaded
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	backend, err := openStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	modCfg := moderation.DefaultConfig()
	if cfg.ModerationConfig != nil {
		modCfg = *cfg.ModerationConfig
	}

	app, err := newWithDependencies(backend, clock.New(), random.New(), dependencyConfig{
		ephemeral:  cfg.Ephemeral,
		moderation: modCfg,
		profile:    cfg.ProfileConfig,
		realtime:   cfg.RealtimeConfig,
	}, logger)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), LoadTimeout)
	defer cancel()
	if err := app.Load(ctx); err != nil {
		_ = backend.Close()
		return nil, err
	}
	return app, nil
}

func openStorage(cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeFile:
		fileCfg := filestorage.DefaultConfig()
		if cfg.FileConfig != nil {
			fileCfg = *cfg.FileConfig
		}
		return filestorage.New(fileCfg, logger)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig, logger)
	case StorageTypeDatabase:
		if cfg.DatabaseConfig == nil {
			return nil, errors.New("DatabaseConfig required when StorageType is database")
		}
		return database.New(*cfg.DatabaseConfig, logger)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be one of file, memory, redis, database", storageType)
	}
}

type dependencyConfig struct {
	ephemeral  bool
	moderation moderation.Config
	profile    profile.Config
	realtime   realtime.Config
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(backend storage.Storage, clk clock.Clock, rnd random.Random, cfg dependencyConfig, logger *slog.Logger) (*App, error) {
	store := state.New(backend, cfg.ephemeral, logger)

	// Create services
	engine := moderation.New(cfg.moderation, clk, logger)
	profiles := profile.New(store, cfg.profile, logger)
	socialManager := social.New(store, engine, logger)
	chatService := chat.New(store, engine, clk, rnd, logger)

	validator, err := realtime.NewValidator()
	if err != nil {
		return nil, err
	}
	hub := realtime.NewHub(logger)
	router := realtime.NewRouter(realtime.RouterConfig{
		Logger:    logger,
		Hub:       hub,
		Validator: validator,
		Profiles:  profiles,
		Social:    socialManager,
		Chat:      chatService,
		Realtime:  cfg.realtime,
	})

	return &App{
		Storage:    backend,
		Store:      store,
		Clock:      clk,
		Random:     rnd,
		Logger:     logger,
		Moderation: engine,
		Profiles:   profiles,
		Social:     socialManager,
		Chat:       chatService,
		Hub:        hub,
		Realtime:   router,
	}, nil
}

// Load reads persisted state and upgrades any plaintext passwords
func (a *App) Load(ctx context.Context) error {
	if err := a.Store.Load(ctx); err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if _, err := a.Profiles.MigrateLegacyPasswords(ctx); err != nil {
		return fmt.Errorf("migrate passwords: %w", err)
	}
	return nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Store.Close()
}
