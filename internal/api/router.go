package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nightshift/internal/api/apierr"
	"github.com/mcoot/nightshift/internal/api/handler"
	"github.com/mcoot/nightshift/internal/middleware"
	"github.com/mcoot/nightshift/internal/realtime"
	"github.com/mcoot/nightshift/internal/services/chat"
	"github.com/mcoot/nightshift/internal/services/moderation"
	"github.com/mcoot/nightshift/internal/services/profile"
	"github.com/mcoot/nightshift/internal/services/social"
	"github.com/mcoot/nightshift/internal/state"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Store      *state.Store
	Profiles   *profile.Service
	Social     *social.Manager
	Chat       *chat.Service
	Moderation *moderation.Engine
	Realtime   *realtime.Router

	// StaticDir, when set, is served at / for the game front-end
	StaticDir string
	// PublicURL overrides the base URL encoded in share QR codes
	PublicURL string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.Profiles, cfg.Social)
	commentHandler := handler.NewCommentHandler(cfg.Chat)
	moderationHandler := handler.NewModerationHandler(cfg.Store, cfg.Moderation)
	shareHandler := handler.NewShareHandler(cfg.PublicURL)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, apiPanicHandler)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// User routes
	api.HandleFunc("/users", userHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/users/search", userHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/users/{username}", userHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/users/{username}/friends", userHandler.Friends).Methods(http.MethodGet)
	api.HandleFunc("/users/{username}/verify", userHandler.Verify).Methods(http.MethodPost)

	// Feed and moderation routes
	api.HandleFunc("/comments", commentHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/moderation/{username}", moderationHandler.Status).Methods(http.MethodGet)

	// Sharing
	api.HandleFunc("/share/qr", shareHandler.QR).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError("route not found"))
	})

	// Realtime endpoint
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(middleware.Recovery(cfg.Logger, nil))
	ws.Use(loggingMiddleware)
	ws.Handle("", cfg.Realtime).Methods(http.MethodGet)

	// Static front-end
	if cfg.StaticDir != "" {
		static := r.PathPrefix("/").Subrouter()
		static.Use(middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler))
		static.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
