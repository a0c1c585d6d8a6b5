package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/ratelimit"
)

// setupFrontendRoutes mounts the JSON API. Access is decided per request by
// the auth middleware's access table.
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limiter ratelimit.Limiter) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(metrics.Middleware)
		r.Use(authMiddleware.authenticate)

		// Auth Handler endpoints
		r.With(rateLimit(limiter, "login")).Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/logout", handlers.authHandler.logout())
		r.Get("/auth/session", handlers.authHandler.session())

		// Project Handler endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

		// Settings Handler endpoints
		r.Get("/settings", handlers.settingsHandler.getSettings())
		r.Put("/settings", handlers.settingsHandler.updateSettings())

		// Contact Handler endpoints
		r.With(rateLimit(limiter, "contact")).Post("/contact", handlers.contactHandler.submit())

		// Admin endpoints
		r.Get("/admin/messages", handlers.messageHandler.listMessages())
		r.Get("/admin/messages/{messageID}", handlers.messageHandler.getMessage())
		r.Put("/admin/messages/{messageID}", handlers.messageHandler.updateMessage())
		r.Delete("/admin/messages/{messageID}", handlers.messageHandler.deleteMessage())
		r.Get("/admin/stats", handlers.statsHandler.getStats())

		// Upload Handler endpoints
		r.Post("/upload", handlers.uploadHandler.upload())
		r.Delete("/upload", handlers.uploadHandler.deleteUpload())

		r.Get("/download-resume", handlers.downloadHandler.downloadResume())
	})
}

// setupInfraRoutes mounts health, metrics and the local upload directory.
func setupInfraRoutes(r chi.Router, handlers *routeHandlers, imagesDir string) {
	r.Get("/healthz", handlers.healthHandler.health())
	r.Handle("/metrics", metrics.Handler())

	if imagesDir != "" {
		r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(imagesDir))))
	}
}
