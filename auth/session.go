package auth

import (
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

const (
	CookieName = "portfolio_session"
	AdminRole  = "admin"
	issuer     = "portfolio-backend"
)

// Claims is the session token payload
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Session is what a verified token grants.
type Session struct {
	Subject   string    `json:"subject"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager signs with secret. Without a secret a random one is
// generated, so sessions do not survive a restart.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	key := []byte(secret)
	if len(key) == 0 {
		log.Warn().Msg("SESSION_SECRET is not set, using an ephemeral signing key")
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(err)
		}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{secret: key, ttl: ttl, now: time.Now}
}

// Issue signs a new admin session token.
func (m *SessionManager) Issue() (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   AdminRole,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Role: AdminRole,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify parses a token and returns the session it carries. Failures are
// errs.ErrTokenExpired or errs.ErrInvalidToken.
func (m *SessionManager) Verify(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, errs.ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.ErrTokenExpired
		}
		return nil, errs.ErrInvalidToken
	}
	if !token.Valid || claims.Role != AdminRole {
		return nil, errs.ErrInvalidToken
	}

	return &Session{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// TokenFromRequest reads the session cookie, then a bearer Authorization header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

func SetCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
