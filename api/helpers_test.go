package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/ratelimit"
	"github.com/rpupo63/portfolio-backend/storage"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse"

// ---- fakes ----

type recordingNotifier struct {
	mu       sync.Mutex
	messages []models.Message
}

func (n *recordingNotifier) Dispatch(_ context.Context, m models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, m)
}

func (n *recordingNotifier) dispatched() []models.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Message(nil), n.messages...)
}

type fakeRemover struct {
	deleted []string
	err     error
}

func (f *fakeRemover) Delete(_ context.Context, publicID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string, string) (bool, error) {
	return false, nil
}

// onePerKeyLimiter admits the first request per bucket and key.
type onePerKeyLimiter struct {
	mu   sync.Mutex
	seen map[string]int
}

func (l *onePerKeyLimiter) Allow(_ context.Context, bucket, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = map[string]int{}
	}
	l.seen[bucket+"|"+key]++
	return l.seen[bucket+"|"+key] == 1, nil
}

func (l *onePerKeyLimiter) keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.seen))
	for k := range l.seen {
		out = append(out, k)
	}
	return out
}

// ---- harness ----

type testEnv struct {
	router   http.Handler
	db       database.Database
	sessions *auth.SessionManager
	notifier *recordingNotifier
	dataDir  string
}

type envOption func(*Dependencies)

func withRemover(r storage.Remover) envOption {
	return func(d *Dependencies) { d.Remover = r }
}

func withLimiter(l ratelimit.Limiter) envOption {
	return func(d *Dependencies) { d.Limiter = l }
}

func withPassword(p auth.PasswordVerifier) envOption {
	return func(d *Dependencies) { d.Password = p }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	dir := t.TempDir()
	local := storage.NewLocalStore(dir)
	env := &testEnv{
		db:       database.NewMemory(),
		sessions: auth.NewSessionManager("test-secret", time.Hour),
		notifier: &recordingNotifier{},
		dataDir:  dir,
	}

	deps := Dependencies{
		Database:  env.db,
		Sessions:  env.sessions,
		Password:  auth.NewPasswordVerifier(testPassword, ""),
		Notifier:  env.notifier,
		Uploader:  local,
		ImagesDir: local.ImagesDir(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	env.router = newRouter(deps, withConfig(config.App{}), withStartupTime(time.Now()))
	return env
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	token, _, err := e.sessions.Issue()
	require.NoError(t, err)
	return token
}

// do sends body as JSON. An empty token sends an anonymous request.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data"`
	Error       string          `json:"error"`
	Message     string          `json:"message"`
	Pagination  *pagination     `json:"pagination"`
	UnreadCount *int64          `json:"unreadCount"`
	Field       string          `json:"field"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (e *testEnv) createProject(t *testing.T, title string, featured bool) models.Project {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/projects", map[string]any{
		"title":    title,
		"summary":  "A short summary",
		"content":  "Longer content",
		"featured": featured,
		"stack":    []string{"Go"},
	}, e.token(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[models.Project](t, rec)
}

func (e *testEnv) seedMessage(t *testing.T, name string) models.Message {
	t.Helper()
	m := models.Message{
		Name:    name,
		Email:   name + "@example.com",
		Subject: "Hello",
		Message: "Just saying hi",
	}
	require.NoError(t, e.db.MessageRepo().Add(context.Background(), &m))
	return m
}
