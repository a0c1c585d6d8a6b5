package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	sessions      *auth.SessionManager
	password      auth.PasswordVerifier
	secureCookies bool
}

func newAuthHandler(sessions *auth.SessionManager, password auth.PasswordVerifier, secureCookies bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		sessions:      sessions,
		password:      password,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	Session       *auth.Session `json:"session,omitempty"`
}

// login exchanges the admin password for a session cookie. The token is
// also returned for clients that send it as a bearer header.
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, "login", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Password == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("password"))
			return
		}

		if err := h.password.Check(req.Password); err != nil {
			switch {
			case errs.IsConfigError(err):
				h.responder.WriteError(w, errs.NewConfigError("Admin access not configured", "ADMIN_PASSWORD"))
			default:
				h.logger.Warn().Str("remote", clientIP(r)).Msg("Failed admin login")
				h.responder.WriteError(w, errs.NewBadCredentialsError())
			}
			return
		}

		token, expires, err := h.sessions.Issue()
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to create session", err))
			return
		}

		auth.SetCookie(w, token, expires, h.secureCookies)
		h.logger.Info().Str("remote", clientIP(r)).Msg("Admin signed in")
		h.responder.WriteData(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires})
	}
}

// @Router /api/auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.ClearCookie(w, h.secureCookies)
		h.responder.WriteMessage(w, http.StatusOK, "Signed out", nil)
	}
}

// session reports whether the request carries a valid admin session.
// @Router /api/auth/session [get]
func (h authHandler) session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := ctxGetSession(r.Context())
		h.responder.WriteData(w, http.StatusOK, sessionResponse{
			Authenticated: ok,
			Session:       session,
		})
	}
}
