package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/ratelimit"
	"github.com/rpupo63/portfolio-backend/storage"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators the handlers use. Nil optional fields
// fall back to inert implementations.
type Dependencies struct {
	Database database.Database
	Sessions *auth.SessionManager
	Password auth.PasswordVerifier
	Notifier ContactNotifier
	Uploader storage.Uploader
	// Remover is nil when no media host is configured.
	Remover storage.Remover
	// ImagesDir is served at /images; empty disables it.
	ImagesDir  string
	Limiter    ratelimit.Limiter
	HTTPClient *http.Client
}

type discardNotifier struct{}

func (discardNotifier) Dispatch(context.Context, models.Message) {}

func (d Dependencies) withDefaults(cfg config.App) Dependencies {
	if d.Sessions == nil {
		d.Sessions = auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	}
	if d.Notifier == nil {
		d.Notifier = discardNotifier{}
	}
	if d.Uploader == nil {
		local := storage.NewLocalStore(cfg.PublicDir)
		d.Uploader = local
		if d.ImagesDir == "" {
			d.ImagesDir = local.ImagesDir()
		}
	}
	if d.Limiter == nil {
		d.Limiter = ratelimit.Noop{}
	}
	return d
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg config.App, deps Dependencies) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", cfg.Port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	router := newRouter(deps, withConfig(cfg), withStartupTime(startupTime))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,  // Timeout for reading the entire request
		WriteTimeout: cfg.WriteTimeout, // Timeout for writing the response
		IdleTimeout:  cfg.IdleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      config.App
	startupTime time.Time
}

func withConfig(c config.App) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}
	deps = deps.withDefaults(router.config)

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(realIP(parseTrustedProxies(router.config.TrustedProxies)))
	chiRouter.Use(LogInternalServerErrors)

	// Initialize all handlers
	handlers := initializeHandlers(deps, router.config, router.startupTime)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(deps.Sessions, auth.AccessTable(auth.DefaultRules))

	// Apply CORS middleware
	chiRouter.Use(CORSCheckMiddleware(router.config.AcceptedOrigins))
	chiRouter.Use(corsMiddleware(router.config.AcceptedOrigins))

	// Setup all route types
	setupInfraRoutes(chiRouter, handlers, deps.ImagesDir)
	setupFrontendRoutes(chiRouter, handlers, authMiddleware, deps.Limiter)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
