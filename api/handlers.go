package api

import (
	"time"

	"github.com/rpupo63/portfolio-backend/config"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, cfg config.App, startupTime time.Time) *routeHandlers {
	db := deps.Database

	return &routeHandlers{
		projectHandler:  newProjectHandler(db.ProjectRepo()),
		messageHandler:  newMessageHandler(db.MessageRepo()),
		settingsHandler: newSettingsHandler(db.SettingsRepo()),
		contactHandler:  newContactHandler(db.MessageRepo(), deps.Notifier),
		statsHandler:    newStatsHandler(db.ProjectRepo(), db.MessageRepo()),
		uploadHandler:   newUploadHandler(deps.Uploader, deps.Remover),
		authHandler:     newAuthHandler(deps.Sessions, deps.Password, cfg.Auth.SecureCookies),
		downloadHandler: newDownloadHandler(deps.HTTPClient, publicIP),
		healthHandler:   newHealthHandler(db, startupTime),
	}
}
