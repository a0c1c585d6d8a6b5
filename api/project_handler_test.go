package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject_RequiresSession(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{"title": "Gated", "summary": "s", "content": "c"}

	rec := env.do(t, http.MethodPost, "/api/projects", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)

	rec = env.do(t, http.MethodPost, "/api/projects", body, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/projects", body, env.token(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeData[models.Project](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "gated", created.Slug)
	assert.Equal(t, models.DefaultProjectCategory, created.Category)
	assert.False(t, created.Date.IsZero())
	assert.Equal(t, []string{}, created.Tags)
}

func TestCreateProject_DuplicateTitleCreatesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.createProject(t, "My App", false)

	rec := env.do(t, http.MethodPost, "/api/projects", map[string]any{
		"title": "my app!", "summary": "s", "content": "c",
	}, env.token(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A project with this title already exists", decodeEnvelope(t, rec).Error)

	n, err := env.db.ProjectRepo().Count(context.Background(), false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCreateProject_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/projects", map[string]any{"title": "Only title", "summary": "  "}, env.token(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, missingProjectFields, decodeEnvelope(t, rec).Error)

	rec = env.do(t, http.MethodPost, "/api/projects", "not an object", env.token(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAllProjects_PublicAndOrdered(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/projects", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData[[]models.Project](t, rec))

	env.createProject(t, "Plain", false)
	env.createProject(t, "Star", true)

	rec = env.do(t, http.MethodGet, "/api/projects", nil, "")
	projects := decodeData[[]models.Project](t, rec)
	require.Len(t, projects, 2)
	assert.Equal(t, "Star", projects[0].Title)
	assert.Equal(t, "Plain", projects[1].Title)
}

func TestGetProject_ByIDThenSlug(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProject(t, "Lookup Target", false)

	rec := env.do(t, http.MethodGet, "/api/projects/"+p.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p.ID, decodeData[models.Project](t, rec).ID)

	rec = env.do(t, http.MethodGet, "/api/projects/lookup-target", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p.ID, decodeData[models.Project](t, rec).ID)

	rec = env.do(t, http.MethodGet, "/api/projects/nothing-here", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", decodeEnvelope(t, rec).Error)
}

func TestUpdateProject_MergesAndRegeneratesSlug(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProject(t, "Original", false)
	other := env.createProject(t, "Taken", false)

	rec := env.do(t, http.MethodPut, "/api/projects/"+p.ID, map[string]any{
		"title":    "Renamed Project",
		"featured": true,
		"id":       "ignored",
	}, env.token(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decodeData[models.Project](t, rec)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "renamed-project", updated.Slug)
	assert.Equal(t, "A short summary", updated.Summary)
	assert.Equal(t, []string{"Go"}, updated.Stack)
	assert.True(t, updated.Featured)
	assert.True(t, updated.CreatedAt.Equal(p.CreatedAt))

	// colliding with another project's slug
	rec = env.do(t, http.MethodPut, "/api/projects/"+p.ID, map[string]any{"title": other.Title}, env.token(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// required fields cannot be blanked
	rec = env.do(t, http.MethodPut, "/api/projects/"+p.ID, map[string]any{"content": ""}, env.token(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/projects/not-an-id", map[string]any{"title": "x"}, env.token(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid project ID", decodeEnvelope(t, rec).Error)

	rec = env.do(t, http.MethodPut, "/api/projects/"+p.ID, map[string]any{"title": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteProject_RemovesFromList(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProject(t, "Short Lived", false)

	rec := env.do(t, http.MethodDelete, "/api/projects/"+p.ID, nil, env.token(t))
	require.Equal(t, http.StatusOK, rec.Code)

	deleted := decodeData[deletedProject](t, rec)
	assert.Equal(t, deletedProject{ID: p.ID, Title: "Short Lived"}, deleted)

	rec = env.do(t, http.MethodGet, "/api/projects", nil, "")
	assert.Empty(t, decodeData[[]models.Project](t, rec))

	rec = env.do(t, http.MethodDelete, "/api/projects/"+p.ID, nil, env.token(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/projects/garbage", nil, env.token(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
