package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Flow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid password", decodeEnvelope(t, rec).Error)

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password", decodeEnvelope(t, rec).Field)

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": testPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	login := decodeData[loginResponse](t, rec)
	assert.NotEmpty(t, login.Token)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, login.Token, cookie.Value)

	// the cookie alone opens protected routes
	raw, _ := json.Marshal(map[string]any{"title": "Via Cookie", "summary": "s", "content": "c"})
	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(raw))
	req.AddCookie(cookie)
	created := httptest.NewRecorder()
	env.router.ServeHTTP(created, req)
	assert.Equal(t, http.StatusCreated, created.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	session := httptest.NewRecorder()
	env.router.ServeHTTP(session, req)
	got := decodeData[sessionResponse](t, session)
	assert.True(t, got.Authenticated)
	require.NotNil(t, got.Session)
	assert.Equal(t, auth.AdminRole, got.Session.Role)
}

func TestLogin_NotConfigured(t *testing.T) {
	env := newTestEnv(t, withPassword(auth.NewPasswordVerifier("", "")))

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": "anything"}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Admin access not configured", body.Error)
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t, withLimiter(denyLimiter{}))

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"password": testPassword}, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestSession_Anonymous(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/session", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[sessionResponse](t, rec)
	assert.False(t, got.Authenticated)
	assert.Nil(t, got.Session)

	// an invalid token on a public route is ignored
	rec = env.do(t, http.MethodGet, "/api/auth/session", nil, "garbage")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeData[sessionResponse](t, rec).Authenticated)
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}
