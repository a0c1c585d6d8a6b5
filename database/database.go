package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
)

// ProjectRepo stores portfolio projects. Implementations return errs.ErrNotFound,
// errs.ErrInvalidID and errs.ErrAlreadyExists (slug collision) so handlers can
// map failures without knowing the backend.
type ProjectRepo interface {
	// FindAll returns every project, featured first, then newest first.
	FindAll(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id string) (*models.Project, error)
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)
	// Add assigns ID and timestamps.
	Add(ctx context.Context, project *models.Project) error
	// Update replaces the stored document and refreshes UpdatedAt.
	Update(ctx context.Context, project *models.Project) error
	// Delete removes the project and returns what was removed.
	Delete(ctx context.Context, id string) (*models.Project, error)
	Count(ctx context.Context, featuredOnly bool) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Project, error)
	// CountByCategory is ordered by count, largest first.
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
}

// MessageRepo stores contact-form submissions.
type MessageRepo interface {
	// Find returns one page of messages, newest first, with the total matching the filter.
	Find(ctx context.Context, filter models.MessageFilter) ([]models.Message, int64, error)
	FindByID(ctx context.Context, id string) (*models.Message, error)
	Add(ctx context.Context, message *models.Message) error
	SetStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, unreadOnly bool) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Message, error)
}

// SettingsRepo stores the singleton settings document.
type SettingsRepo interface {
	// GetOrCreate returns the stored settings, inserting defaults exactly once.
	GetOrCreate(ctx context.Context, defaults models.Settings) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}

type Database struct {
	projectRepo  ProjectRepo
	messageRepo  MessageRepo
	settingsRepo SettingsRepo
	ping         func(context.Context) error
	close        func(context.Context) error
}

// New aggregates one backend's repositories.
func New(projects ProjectRepo, messages MessageRepo, settings SettingsRepo, opts ...func(*Database)) Database {
	d := Database{
		projectRepo:  projects,
		messageRepo:  messages,
		settingsRepo: settings,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func WithPing(ping func(context.Context) error) func(*Database) {
	return func(d *Database) {
		d.ping = ping
	}
}

func WithClose(close func(context.Context) error) func(*Database) {
	return func(d *Database) {
		d.close = close
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() ProjectRepo {
	return d.projectRepo
}

func (d Database) MessageRepo() MessageRepo {
	return d.messageRepo
}

func (d Database) SettingsRepo() SettingsRepo {
	return d.settingsRepo
}

// Ping checks that the backend is reachable.
func (d Database) Ping(ctx context.Context) error {
	if d.ping == nil {
		return nil
	}
	return d.ping(ctx)
}

func (d Database) Close(ctx context.Context) error {
	if d.close == nil {
		return nil
	}
	return d.close(ctx)
}
