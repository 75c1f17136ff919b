package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/nightshift/internal/api"
	"github.com/mcoot/nightshift/internal/factory"
	"github.com/mcoot/nightshift/internal/realtime"
	"github.com/mcoot/nightshift/internal/services/moderation"
	"github.com/mcoot/nightshift/internal/storage/database"
	filestorage "github.com/mcoot/nightshift/internal/storage/file"
	redisstorage "github.com/mcoot/nightshift/internal/storage/redis"
)

// EnvPrefix is prepended to every flag name to form its environment variable
const EnvPrefix = "NIGHTSHIFT"

// Config holds the server settings collected from flags and environment
type Config struct {
	Bind            string
	Port            int
	Storage         string
	DataDir         string
	RedisURL        string
	DatabaseDialect string
	DatabaseDSN     string
	Ephemeral       bool
	StaticDir       string
	PublicURL       string
	PrivilegedUsers []string
	EventsPerSecond float64
	EventBurst      int
	Verbose         bool
}

// Validate checks option combinations that flags alone cannot express
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	switch c.Storage {
	case factory.StorageTypeFile, factory.StorageTypeMemory, factory.StorageTypeDatabase:
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("--redis-url is required when --storage=redis")
		}
	default:
		return fmt.Errorf("invalid storage %q: must be one of file, memory, redis, database", c.Storage)
	}
	if _, err := database.ParseDialect(c.DatabaseDialect); err != nil {
		return err
	}
	if c.EventsPerSecond <= 0 || c.EventBurst < 1 {
		return errors.New("--events-per-second and --event-burst must be positive")
	}
	return nil
}

// LogLevel returns the slog level selected by --verbose
func (c *Config) LogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Factory converts the settings into application wiring configuration
func (c *Config) Factory(logger *slog.Logger) factory.Config {
	modCfg := moderation.DefaultConfig()
	modCfg.Privileged = c.PrivilegedUsers

	rtCfg := realtime.DefaultConfig()
	rtCfg.EventsPerSecond = c.EventsPerSecond
	rtCfg.EventBurst = c.EventBurst

	out := factory.Config{
		Logger:           logger,
		StorageType:      c.Storage,
		Ephemeral:        c.Ephemeral,
		ModerationConfig: &modCfg,
		RealtimeConfig:   rtCfg,
	}

	switch c.Storage {
	case factory.StorageTypeFile:
		out.FileConfig = &filestorage.Config{Dir: c.DataDir}
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		out.RedisConfig = &redisCfg
	case factory.StorageTypeDatabase:
		dbCfg := database.DefaultConfig()
		dbCfg.Dialect, _ = database.ParseDialect(c.DatabaseDialect)
		if c.DatabaseDSN != "" {
			dbCfg.DSN = c.DatabaseDSN
		}
		out.DatabaseConfig = &dbCfg
	}
	return out
}

// Server returns the HTTP listener configuration
func (c *Config) Server() api.ServerConfig {
	sc := api.DefaultServerConfig()
	sc.Host = c.Bind
	sc.Port = c.Port
	return sc
}

// RunFunc starts the server once configuration is complete
type RunFunc func(ctx context.Context, cfg *Config) error

// NewCommand builds the server command. Every flag may also be set through
// NIGHTSHIFT_<FLAG> with dashes replaced by underscores.
func NewCommand(cfg *Config, run RunFunc) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// hosted deployments have a read-only filesystem
	_ = v.BindEnv("vercel", "VERCEL")

	cmd := &cobra.Command{
		Use:   "nightshift",
		Short: "Realtime chat, friends and moderation server for the nightshift quiz.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if v.GetString("vercel") != "" {
				cfg.Ephemeral = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rt := realtime.DefaultConfig()
	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: NIGHTSHIFT_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 3000, "port to listen on (env: NIGHTSHIFT_PORT)")
	fs.StringVar(&cfg.Storage, "storage", factory.StorageTypeFile, "storage backend: file, memory, redis, database (env: NIGHTSHIFT_STORAGE)")
	fs.StringVar(&cfg.DataDir, "data-dir", filestorage.DefaultConfig().Dir, "directory for JSON documents (env: NIGHTSHIFT_DATA_DIR)")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "redis connection URL (env: NIGHTSHIFT_REDIS_URL)")
	fs.StringVar(&cfg.DatabaseDialect, "database-dialect", string(database.DialectSQLite), "sqlite or postgres (env: NIGHTSHIFT_DATABASE_DIALECT)")
	fs.StringVar(&cfg.DatabaseDSN, "database-dsn", "", "sqlite path or postgres URL (env: NIGHTSHIFT_DATABASE_DSN)")
	fs.BoolVar(&cfg.Ephemeral, "ephemeral", false, "never write state to storage (env: NIGHTSHIFT_EPHEMERAL, VERCEL)")
	fs.StringVar(&cfg.StaticDir, "static-dir", "", "serve the front-end from this directory (env: NIGHTSHIFT_STATIC_DIR)")
	fs.StringVar(&cfg.PublicURL, "public-url", "", "base URL encoded in share QR codes (env: NIGHTSHIFT_PUBLIC_URL)")
	fs.StringSliceVar(&cfg.PrivilegedUsers, "privileged-users", moderation.DefaultConfig().Privileged, "users exempt from censoring and bans (env: NIGHTSHIFT_PRIVILEGED_USERS)")
	fs.Float64Var(&cfg.EventsPerSecond, "events-per-second", rt.EventsPerSecond, "sustained inbound events per connection (env: NIGHTSHIFT_EVENTS_PER_SECOND)")
	fs.IntVar(&cfg.EventBurst, "event-burst", rt.EventBurst, "inbound event burst per connection (env: NIGHTSHIFT_EVENT_BURST)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log at debug level (env: NIGHTSHIFT_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
