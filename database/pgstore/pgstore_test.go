package pgstore

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, err := parseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = parseID("not-a-uuid")
	assert.ErrorIs(t, err, errs.ErrInvalidID)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), errs.ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), errs.ErrAlreadyExists)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestProjectRowConversion(t *testing.T) {
	p := models.Project{
		ID:    uuid.NewString(),
		Slug:  "demo",
		Title: "Demo",
		Stack: []string{"Go"},
	}

	row := newProjectRow(p)
	assert.Equal(t, p.ID, row.ID.String())
	assert.Equal(t, []string{}, []string(row.Tags))

	back := row.model()
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, []string{"Go"}, back.Stack)
	assert.Equal(t, []string{}, back.Tags)
}

func TestSettingsRowConversion(t *testing.T) {
	s := models.DefaultSettings()

	row := newSettingsRow(s)
	assert.Equal(t, models.SettingsKey, row.Key)

	back := row.model()
	assert.Equal(t, models.SettingsKey, back.ID)
	assert.Equal(t, s.SocialLinks, back.SocialLinks)
	assert.Equal(t, s.Skills, back.Skills)
	assert.Equal(t, s.Technologies, back.Technologies)
}

func TestStatusColumns(t *testing.T) {
	now := time.Now()
	read := true

	cols := statusColumns(models.MessageStatus{Read: &read}, now)
	assert.Equal(t, map[string]any{"updated_at": now, "read": true}, cols)
}
