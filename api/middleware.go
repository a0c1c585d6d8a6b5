package api

import (
	"net/http"
	"net/netip"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/ratelimit"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authMiddleware struct {
	responder Responder
	logger    zerolog.Logger
	sessions  *auth.SessionManager
	table     auth.AccessTable
}

func newAuthMiddleware(sessions *auth.SessionManager, table auth.AccessTable) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		logger:    logger,
		sessions:  sessions,
		table:     table,
	}
}

// authenticate applies the access table. Protected routes need a valid
// session; elsewhere a valid session is attached when present.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access := m.table.Decide(r.Method, r.URL.Path)
		session, err := m.sessions.Verify(auth.TokenFromRequest(r))

		if access == auth.Protected && err != nil {
			m.logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Err(err).
				Msg("Rejected unauthenticated request")

			switch {
			case errs.IsTokenExpiredError(err):
				m.responder.WriteError(w, errs.NewTokenExpiredError())
			case errs.IsMissingTokenError(err):
				m.responder.WriteError(w, errs.NewMissingTokenError())
			default:
				m.responder.WriteError(w, errs.NewInvalidTokenError())
			}
			return
		}

		if err == nil {
			r = r.WithContext(ctxWithSession(r.Context(), session))
		}
		next.ServeHTTP(w, r)
	})
}

// trustedProxies are the peers whose forwarding headers are believed.
type trustedProxies []netip.Prefix

func parseTrustedProxies(entries []string) trustedProxies {
	var out trustedProxies
	for _, entry := range entries {
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			out = append(out, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		log.Warn().Str("entry", entry).Msg("Ignoring invalid TRUSTED_PROXIES entry")
	}
	return out
}

func (t trustedProxies) contains(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range t {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// forwardedClient is the client address reported by a trusted proxy: the
// rightmost X-Forwarded-For hop that is not itself a trusted proxy, else
// X-Real-IP. Empty when the peer is not trusted.
func (t trustedProxies) forwardedClient(r *http.Request) string {
	if len(t) == 0 {
		return ""
	}
	peer, err := netip.ParseAddr(clientIP(r))
	if err != nil || !t.contains(peer) {
		return ""
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				return ""
			}
			if !t.contains(hop) {
				return hop.Unmap().String()
			}
		}
		return ""
	}

	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.Unmap().String()
	}
	return ""
}

// realIP replaces RemoteAddr with the forwarded client address, but only for
// requests arriving through a trusted proxy.
func realIP(trusted trustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client := trusted.forwardedClient(r); client != "" {
				r.RemoteAddr = client
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimit throttles a route per client IP. Limiter failures let the request through.
func rateLimit(limiter ratelimit.Limiter, bucket string) func(http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "rateLimit").Str("bucket", bucket).Logger())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), bucket, clientIP(r))
			if err != nil {
				log.Warn().Err(err).Str("bucket", bucket).Msg("Rate limiter unavailable")
			}
			if !allowed {
				responder.WriteError(w, errs.NewTooManyRequestsError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "recoverer").Logger())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					responder.WriteError(srw, errs.NewInternalError("Internal server error"))
				}
			}
		}()

		next.ServeHTTP(srw, r)

		// Log 500s that weren't panics (e.g. manually set by handlers)
		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// CORSCheckMiddleware rejects preflight requests from origins outside the allow list
func CORSCheckMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "corsCheck").Logger())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// If no origin header, it's likely a same-origin request
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed := false
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					allowed = true
					break
				}
			}

			if !allowed && r.Method == http.MethodOptions {
				responder.WriteError(w, errs.NewCORSError(origin))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware sets CORS headers for allowed origins. Credentials are
// allowed so the session cookie reaches the admin routes.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on status codes
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		duration := time.Since(start)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = colorLogger.Error()
		case srw.status >= 400:
			logEvent = colorLogger.Warn()
		default:
			logEvent = colorLogger.Info()
		}

		logEvent.
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
