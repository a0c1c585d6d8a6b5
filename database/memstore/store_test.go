package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(title string, featured bool) *models.Project {
	return &models.Project{
		Title:    title,
		Slug:     models.Slugify(title),
		Summary:  "summary",
		Content:  "content",
		Category: "Web Development",
		Featured: featured,
	}
}

func TestProjectRepo_AddRejectsDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	repo := New().ProjectRepo()

	require.NoError(t, repo.Add(ctx, newProject("My App", false)))

	err := repo.Add(ctx, newProject("my app!", false))
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	n, err := repo.Count(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestProjectRepo_FindAllOrdering(t *testing.T) {
	ctx := context.Background()
	repo := New().ProjectRepo()

	require.NoError(t, repo.Add(ctx, newProject("Old Featured", true)))
	require.NoError(t, repo.Add(ctx, newProject("Plain", false)))
	require.NoError(t, repo.Add(ctx, newProject("New Featured", true)))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "New Featured", all[0].Title)
	assert.Equal(t, "Old Featured", all[1].Title)
	assert.Equal(t, "Plain", all[2].Title)
}

func TestProjectRepo_FindByIDAndSlug(t *testing.T) {
	ctx := context.Background()
	repo := New().ProjectRepo()

	p := newProject("Lookup Me", false)
	require.NoError(t, repo.Add(ctx, p))
	require.NotEmpty(t, p.ID)

	byID, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "lookup-me", byID.Slug)

	bySlug, err := repo.FindBySlug(ctx, "lookup-me")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)

	_, err = repo.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, errs.ErrInvalidID)

	_, err = repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProjectRepo_UpdateKeepsCreatedAtAndChecksSlug(t *testing.T) {
	ctx := context.Background()
	repo := New().ProjectRepo()

	first := newProject("First", false)
	second := newProject("Second", false)
	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, second))

	edited := *second
	edited.Title = "First"
	edited.Slug = "first"
	assert.ErrorIs(t, repo.Update(ctx, &edited), errs.ErrAlreadyExists)

	edited.Title = "Second Renamed"
	edited.Slug = "second-renamed"
	require.NoError(t, repo.Update(ctx, &edited))
	assert.Equal(t, second.CreatedAt, edited.CreatedAt)
	assert.True(t, edited.UpdatedAt.After(second.UpdatedAt))

	// keeping its own slug is not a collision
	require.NoError(t, repo.Update(ctx, &edited))
}

func TestProjectRepo_DeleteAndStats(t *testing.T) {
	ctx := context.Background()
	repo := New().ProjectRepo()

	a := newProject("A", true)
	b := newProject("B", false)
	c := newProject("C", false)
	c.Category = "Mobile"
	for _, p := range []*models.Project{a, b, c} {
		require.NoError(t, repo.Add(ctx, p))
	}

	featured, err := repo.Count(ctx, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, featured)

	cats, err := repo.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryCount{
		{Category: "Web Development", Count: 2},
		{Category: "Mobile", Count: 1},
	}, cats)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "C", recent[0].Title)

	deleted, err := repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", deleted.Title)

	_, err = repo.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMessageRepo_FindPagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := New().MessageRepo()

	for _, name := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Add(ctx, &models.Message{Name: name, Email: name + "@example.com"}))
	}

	page, total, err := repo.Find(ctx, models.MessageFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].Name)
	assert.Equal(t, "two", page[1].Name)

	page, _, err = repo.Find(ctx, models.MessageFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "one", page[0].Name)

	page, _, err = repo.Find(ctx, models.MessageFilter{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMessageRepo_SetStatus(t *testing.T) {
	ctx := context.Background()
	repo := New().MessageRepo()

	m := &models.Message{Name: "n", Email: "n@example.com"}
	require.NoError(t, repo.Add(ctx, m))

	read := true
	updated, err := repo.SetStatus(ctx, m.ID, models.MessageStatus{Read: &read})
	require.NoError(t, err)
	assert.True(t, updated.Read)
	assert.False(t, updated.Replied)

	got, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)

	unread, err := repo.Count(ctx, true)
	require.NoError(t, err)
	assert.Zero(t, unread)

	onlyRead, total, err := repo.Find(ctx, models.MessageFilter{Read: &read, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, onlyRead, 1)

	require.NoError(t, repo.Delete(ctx, m.ID))
	assert.ErrorIs(t, repo.Delete(ctx, m.ID), errs.ErrNotFound)
	_, err = repo.SetStatus(ctx, "bogus", models.MessageStatus{Read: &read})
	assert.ErrorIs(t, err, errs.ErrInvalidID)
}

func TestSettingsRepo_GetOrCreateOnce(t *testing.T) {
	ctx := context.Background()
	repo := New().SettingsRepo()

	var wg sync.WaitGroup
	results := make([]*models.Settings, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := repo.GetOrCreate(ctx, models.DefaultSettings())
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range results {
		require.NotNil(t, s)
		assert.Equal(t, results[0].CreatedAt, s.CreatedAt)
	}

	s := results[0]
	s.SiteName = "Renamed"
	require.NoError(t, repo.Save(ctx, s))

	again, err := repo.GetOrCreate(ctx, models.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.SiteName)
	assert.Equal(t, results[0].CreatedAt, again.CreatedAt)
}
