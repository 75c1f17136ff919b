package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/nightshift/internal/api"
	"github.com/mcoot/nightshift/internal/config"
	"github.com/mcoot/nightshift/internal/factory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cobra.CheckErr(config.NewCommand(&config.Config{}, run).ExecuteContext(ctx))
}

func run(ctx context.Context, cfg *config.Config) error {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(cfg.Factory(logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	logger.Info("state loaded",
		slog.String("storage", cfg.Storage),
		slog.Bool("ephemeral", cfg.Ephemeral),
		slog.Int("users", len(app.Profiles.AllUsers())))

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Store:      app.Store,
		Profiles:   app.Profiles,
		Social:     app.Social,
		Chat:       app.Chat,
		Moderation: app.Moderation,
		Realtime:   app.Realtime,
		StaticDir:  cfg.StaticDir,
		PublicURL:  cfg.PublicURL,
	})

	server := api.NewServer(router, cfg.Server(), logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	// flush anything written since the last mutation
	app.Store.Persist(context.Background())

	logger.Info("server stopped")
	return nil
}
