package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes data with a 200 status.
func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteStatusJSON(w, http.StatusOK, data)
}

func (r Responder) WriteStatusJSON(w http.ResponseWriter, status int, data any) {
	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large, truncating")

		status = http.StatusRequestEntityTooLarge
		jsonData, _ = json.Marshal(envelope{
			Error:   "Response too large",
			Message: "The requested data exceeds the maximum response size",
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteData wraps data in a success envelope.
func (r Responder) WriteData(w http.ResponseWriter, status int, data any) {
	r.WriteStatusJSON(w, status, envelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope carrying a human readable message.
func (r Responder) WriteMessage(w http.ResponseWriter, status int, message string, data any) {
	r.WriteStatusJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteStatusJSON(w, http.StatusInternalServerError, envelope{
			Error: "Internal server error",
		})
		return
	}

	response := envelope{
		Error: apiErr.Message(),
		Field: apiErr.Field,
	}

	if apiErr.Internal() {
		// details and causes stay in the log
		r.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("error", apiErr.GetFullError()).
			Msg("request failed")
	} else {
		response.Details = apiErr.Details
		r.logger.Debug().
			Int("status", apiErr.StatusCode).
			Str("error", apiErr.GetFullError()).
			Msg("request rejected")
	}

	r.WriteStatusJSON(w, apiErr.StatusCode, response)
}

// WriteValidationError writes a standardized validation error response
func (r Responder) WriteValidationError(w http.ResponseWriter, field string, message string) {
	r.WriteStatusJSON(w, http.StatusBadRequest, envelope{
		Error: message,
		Field: field,
	})
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
