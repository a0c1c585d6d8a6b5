package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
	maxMessagePage      = 100_000
)

type messageHandler struct {
	responder   Responder
	logger      zerolog.Logger
	messageRepo database.MessageRepo
}

func newMessageHandler(messageRepo database.MessageRepo) messageHandler {
	logger := log.With().Str("handlerName", "messageHandler").Logger()

	return messageHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		messageRepo: messageRepo,
	}
}

// listMessages pages through the inbox, newest first.
// @Router /api/admin/messages [get]
func (h messageHandler) listMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := models.MessageFilter{
			Read:  queryBool(r, "read"),
			Page:  queryInt(r, "page", 1),
			Limit: min(queryInt(r, "limit", defaultMessageLimit), maxMessageLimit),
		}
		if filter.Page > maxMessagePage {
			h.responder.WriteValidationError(w, "page", fmt.Sprintf("Page must be at most %d", maxMessagePage))
			return
		}

		messages, total, err := h.messageRepo.Find(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "messages", err))
			return
		}
		if messages == nil {
			messages = []models.Message{}
		}

		unread, err := h.messageRepo.Count(r.Context(), true)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "messages", err))
			return
		}

		limit := int64(filter.Limit)
		h.responder.WriteStatusJSON(w, http.StatusOK, envelope{
			Success: true,
			Data:    messages,
			Pagination: &pagination{
				Total:      total,
				Page:       filter.Page,
				Limit:      filter.Limit,
				TotalPages: (total + limit - 1) / limit,
			},
			UnreadCount: &unread,
		})
	}
}

// @Router /api/admin/messages/{messageID} [get]
func (h messageHandler) getMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		message, err := h.messageRepo.FindByID(r.Context(), chi.URLParam(r, "messageID"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "message", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, message)
	}
}

// updateMessage flips the read and replied flags. Other fields, and
// non-boolean values, are ignored.
// @Router /api/admin/messages/{messageID} [put]
func (h messageHandler) updateMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID := chi.URLParam(r, "messageID")

		var body map[string]any
		if err := decodeJSON(w, r, "message", &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		status := statusFromBody(body)

		var (
			message *models.Message
			err     error
		)
		if status.Empty() {
			message, err = h.messageRepo.FindByID(r.Context(), messageID)
		} else {
			message, err = h.messageRepo.SetStatus(r.Context(), messageID, status)
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "message", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, message)
	}
}

// @Router /api/admin/messages/{messageID} [delete]
func (h messageHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID := chi.URLParam(r, "messageID")

		if err := h.messageRepo.Delete(r.Context(), messageID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "message", err))
			return
		}

		h.logger.Info().Str("messageId", messageID).Msg("Message deleted")
		h.responder.WriteMessage(w, http.StatusOK, "Message deleted successfully", nil)
	}
}

func statusFromBody(body map[string]any) models.MessageStatus {
	var status models.MessageStatus
	if v, ok := body["read"].(bool); ok {
		status.Read = &v
	}
	if v, ok := body["replied"].(bool); ok {
		status.Replied = &v
	}
	return status
}
