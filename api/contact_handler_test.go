package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() map[string]any {
	return map[string]any{
		"name":    "  Ada Lovelace ",
		"email":   " Ada@Example.COM ",
		"subject": "Project inquiry",
		"message": "I would like to work together.",
	}
}

func messageCount(t *testing.T, env *testEnv) int64 {
	t.Helper()
	n, err := env.db.MessageRepo().Count(context.Background(), false)
	require.NoError(t, err)
	return n
}

func TestContact_StoresAndDispatches(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/contact", validContact(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, contactSentMessage, body.Message)

	receipt := decodeData[contactReceipt](t, rec)
	stored, err := env.db.MessageRepo().FindByID(context.Background(), receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", stored.Name)
	assert.Equal(t, "ada@example.com", stored.Email)
	assert.False(t, stored.Read)
	assert.False(t, stored.Replied)

	sent := env.notifier.dispatched()
	require.Len(t, sent, 1)
	assert.Equal(t, receipt.ID, sent[0].ID)
}

func TestContact_MissingFieldPersistsNothing(t *testing.T) {
	env := newTestEnv(t)

	for _, field := range []string{"name", "email", "subject", "message"} {
		t.Run(field, func(t *testing.T) {
			body := validContact()
			body[field] = "   "

			rec := env.do(t, http.MethodPost, "/api/contact", body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "All fields are required: name, email, subject, message", decodeEnvelope(t, rec).Error)
		})
	}

	assert.Zero(t, messageCount(t, env))
	assert.Empty(t, env.notifier.dispatched())
}

func TestContact_InvalidEmail(t *testing.T) {
	env := newTestEnv(t)
	body := validContact()
	body["email"] = "not-an-email"

	rec := env.do(t, http.MethodPost, "/api/contact", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "Please provide a valid email address", resp.Error)
	assert.Equal(t, "email", resp.Field)
	assert.Zero(t, messageCount(t, env))
}

func TestContact_SpamLooksAcceptedButIsDropped(t *testing.T) {
	env := newTestEnv(t)

	for name, patch := range map[string]map[string]any{
		"keyword": {"subject": "Great Bitcoin opportunity"},
		"link":    {"message": "see https://spam.example/now"},
	} {
		t.Run(name, func(t *testing.T) {
			body := validContact()
			for k, v := range patch {
				body[k] = v
			}

			rec := env.do(t, http.MethodPost, "/api/contact", body, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, decodeEnvelope(t, rec).Success)
		})
	}

	assert.Zero(t, messageCount(t, env))
	assert.Empty(t, env.notifier.dispatched())
}

func TestLooksLikeSpam(t *testing.T) {
	assert.True(t, looksLikeSpam(models.Message{Name: "Crypto Fan", Subject: "hi", Message: "hello"}))
	assert.False(t, looksLikeSpam(models.Message{Name: "Ann", Subject: "Cryptography talk", Message: "hello"}))
	assert.True(t, looksLikeSpam(models.Message{Name: "Ann", Subject: "hi", Message: "visit http://x.io"}))
	// the address itself is never scanned
	assert.False(t, looksLikeSpam(models.Message{Name: "Ann", Email: "winner@lottery.com", Subject: "hi", Message: "hello"}))
}

func TestContact_RateLimited(t *testing.T) {
	env := newTestEnv(t, withLimiter(denyLimiter{}))

	rec := env.do(t, http.MethodPost, "/api/contact", validContact(), "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Zero(t, messageCount(t, env))

	// other routes are not throttled
	rec = env.do(t, http.MethodGet, "/api/projects", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
