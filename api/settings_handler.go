package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type settingsHandler struct {
	responder    Responder
	logger       zerolog.Logger
	settingsRepo database.SettingsRepo
}

func newSettingsHandler(settingsRepo database.SettingsRepo) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()

	return settingsHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		settingsRepo: settingsRepo,
	}
}

// getSettings returns the site settings, creating the defaults on first read.
// @Router /api/settings [get]
func (h settingsHandler) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settingsRepo.GetOrCreate(r.Context(), models.DefaultSettings())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "settings", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, settings)
	}
}

// updateSettings merges the provided fields onto the stored settings.
// @Router /api/settings [put]
func (h settingsHandler) updateSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, err := h.settingsRepo.GetOrCreate(r.Context(), models.DefaultSettings())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "settings", err))
			return
		}

		settings := *existing
		if err := decodeJSON(w, r, "settings", &settings); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt

		if err := settings.Validate(); err != nil {
			h.responder.WriteValidationError(w, "skills", err.Error())
			return
		}
		settings.Normalize()

		if err := h.settingsRepo.Save(r.Context(), &settings); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", "settings", err))
			return
		}

		h.logger.Info().Msg("Settings updated")
		h.responder.WriteMessage(w, http.StatusOK, "Settings updated successfully", settings)
	}
}
