package pgstore

import (
	"context"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db}
}

// GetOrCreate inserts the defaults unless the row already exists, then reads
// the row back from the primary. ON CONFLICT DO NOTHING makes concurrent
// first reads converge on a single row.
func (r *SettingsRepo) GetOrCreate(ctx context.Context, defaults models.Settings) (*models.Settings, error) {
	now := time.Now().UTC()
	defaults.CreatedAt = now
	defaults.UpdatedAt = now

	row := newSettingsRow(defaults)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return nil, translate(err)
	}

	var stored settingsRow
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		First(&stored, "key = ?", models.SettingsKey).Error; err != nil {
		return nil, translate(err)
	}

	s := stored.model()
	return &s, nil
}

func (r *SettingsRepo) Save(ctx context.Context, settings *models.Settings) error {
	now := time.Now().UTC()
	settings.UpdatedAt = now
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}

	row := newSettingsRow(*settings)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"site_name", "owner_name", "title", "bio", "location", "email", "phone",
			"availability", "profile_image", "resume_url", "social_links", "skills",
			"technologies", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return translate(err)
	}

	settings.ID = row.Key
	return nil
}
