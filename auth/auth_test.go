package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_IssueAndVerify(t *testing.T) {
	t.Parallel()

	m := NewSessionManager("super-secret", time.Hour)

	tok, expires, err := m.Issue()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	s, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, AdminRole, s.Subject)
	assert.Equal(t, AdminRole, s.Role)
}

func TestSessionManager_Expired(t *testing.T) {
	t.Parallel()

	m := NewSessionManager("secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := m.Issue()
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, errs.ErrTokenExpired)
}

func TestSessionManager_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewSessionManager("right", time.Hour).Issue()
	require.NoError(t, err)

	_, err = NewSessionManager("wrong", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestSessionManager_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	m := NewSessionManager("secret", time.Hour)

	_, err := m.Verify("")
	assert.ErrorIs(t, err, errs.ErrMissingToken)

	_, err = m.Verify("garbage")
	assert.ErrorIs(t, err, errs.ErrInvalidToken)

	// correctly signed but missing the admin role
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Verify(signed)
	assert.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestSessionManager_EphemeralSecret(t *testing.T) {
	t.Parallel()

	m := NewSessionManager("", 0)
	assert.Len(t, m.secret, 32)
	assert.Equal(t, 24*time.Hour, m.ttl)
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", TokenFromRequest(r))
}

func TestCookies(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	SetCookie(w, "tok", time.Now().Add(time.Hour), true)
	ClearCookie(w, true)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, -1, cookies[1].MaxAge)
}

func TestPasswordVerifier(t *testing.T) {
	t.Parallel()

	plain := NewPasswordVerifier("hunter2", "")
	assert.True(t, plain.Configured())
	assert.NoError(t, plain.Check("hunter2"))
	assert.ErrorIs(t, plain.Check("hunter3"), errs.ErrBadCredentials)

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	hashed := NewPasswordVerifier("ignored", hash)
	assert.NoError(t, hashed.Check("s3cret"))
	assert.ErrorIs(t, hashed.Check("ignored"), errs.ErrBadCredentials)

	none := NewPasswordVerifier("", "")
	assert.False(t, none.Configured())
	assert.ErrorIs(t, none.Check("anything"), errs.ErrConfigMissing)
}

func TestAccessTable(t *testing.T) {
	t.Parallel()

	table := AccessTable(DefaultRules)
	cases := []struct {
		method, path string
		want         Access
	}{
		{http.MethodPost, "/api/auth/login", Public},
		{http.MethodGet, "/api/projects", Public},
		{http.MethodGet, "/api/projects/my-slug", Public},
		{http.MethodPost, "/api/projects", Protected},
		{http.MethodPut, "/api/projects/123", Protected},
		{http.MethodDelete, "/api/projects/123/", Protected},
		{http.MethodPost, "/api/contact", Public},
		{http.MethodGet, "/api/settings", Public},
		{http.MethodPut, "/api/settings", Protected},
		{http.MethodGet, "/api/admin/messages", Protected},
		{http.MethodGet, "/api/admin/stats", Protected},
		{http.MethodPost, "/api/upload", Protected},
		{http.MethodDelete, "/api/upload", Protected},
		{http.MethodGet, "/api/download-resume", Allowed},
		{http.MethodGet, "/api/projectsfoo", Allowed},
		{http.MethodGet, "/healthz", Allowed},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, table.Decide(tc.method, tc.path), "%s %s", tc.method, tc.path)
	}
}
