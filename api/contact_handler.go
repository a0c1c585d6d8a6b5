package api

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	contactSentMessage = "Your message has been sent successfully! I will get back to you soon."
	spamSentMessage    = "Your message has been sent successfully!"
)

var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(viagra|casino|lottery|winner|bitcoin|crypto|investment)\b`),
	regexp.MustCompile(`(?i)https?://\S+`),
}

type contactHandler struct {
	responder   Responder
	logger      zerolog.Logger
	messageRepo database.MessageRepo
	notifier    ContactNotifier
}

func newContactHandler(messageRepo database.MessageRepo, notifier ContactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type contactReceipt struct {
	ID string `json:"id"`
}

// looksLikeSpam checks the free-text fields; the email address is not scanned.
func looksLikeSpam(m models.Message) bool {
	text := strings.Join([]string{m.Name, m.Subject, m.Message}, " ")
	for _, p := range spamPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// submit stores a contact message and notifies the owner in the background.
// Suspected spam gets the same success response but is dropped.
// @Router /api/contact [post]
func (h contactHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := decodeJSON(w, r, "contact", &req); err != nil {
			metrics.IncrementContactSubmission("invalid")
			h.responder.WriteError(w, err)
			return
		}

		message := models.Message{
			Name:    req.Name,
			Email:   req.Email,
			Subject: req.Subject,
			Message: req.Message,
		}
		message.Normalize()

		if message.Name == "" || message.Email == "" || message.Subject == "" || message.Message == "" {
			metrics.IncrementContactSubmission("invalid")
			h.responder.WriteError(w, errs.NewBadRequestError("All fields are required: name, email, subject, message"))
			return
		}
		if !models.ValidEmail(message.Email) {
			metrics.IncrementContactSubmission("invalid")
			h.responder.WriteValidationError(w, "email", "Please provide a valid email address")
			return
		}

		if looksLikeSpam(message) {
			metrics.IncrementContactSubmission("spam")
			h.logger.Info().Str("remote", clientIP(r)).Msg("Spam message detected and dropped")
			h.responder.WriteMessage(w, http.StatusOK, spamSentMessage, nil)
			return
		}

		if err := h.messageRepo.Add(r.Context(), &message); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", "message", err))
			return
		}

		metrics.IncrementContactSubmission("accepted")
		h.logger.Info().Str("messageId", message.ID).Msg("Contact message saved")

		h.notifier.Dispatch(r.Context(), message)

		h.responder.WriteMessage(w, http.StatusOK, contactSentMessage, contactReceipt{ID: message.ID})
	}
}
