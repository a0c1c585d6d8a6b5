package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(database database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		database:    database,
		startupTime: startupTime,
	}
}

type healthStatus struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"startedAt"`
	Uptime    string    `json:"uptime"`
}

// health reports liveness and whether the store answers a ping.
// @Router /healthz [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.database.Ping(ctx); err != nil {
			apiErr := errs.NewInternalErrorWithCause("Database unavailable", err)
			apiErr.StatusCode = http.StatusServiceUnavailable
			h.responder.WriteError(w, apiErr)
			return
		}

		h.responder.WriteData(w, http.StatusOK, healthStatus{
			Status:    "ok",
			StartedAt: h.startupTime,
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
