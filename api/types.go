package api

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler  projectHandler
	messageHandler  messageHandler
	settingsHandler settingsHandler
	contactHandler  contactHandler
	statsHandler    statsHandler
	uploadHandler   uploadHandler
	authHandler     authHandler
	downloadHandler downloadHandler
	healthHandler   healthHandler
}

// envelope is the body of every JSON response.
type envelope struct {
	Success     bool        `json:"success"`
	Data        any         `json:"data,omitempty"`
	Error       string      `json:"error,omitempty"`
	Message     string      `json:"message,omitempty"`
	Pagination  *pagination `json:"pagination,omitempty"`
	UnreadCount *int64      `json:"unreadCount,omitempty"`
	Field       string      `json:"field,omitempty"`
	Details     string      `json:"details,omitempty"`
}

type pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// ContactNotifier delivers notifications for a stored contact message
// without blocking the caller.
type ContactNotifier interface {
	Dispatch(ctx context.Context, m models.Message)
}
