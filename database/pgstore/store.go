// Package pgstore implements the repositories on PostgreSQL through GORM.
// The schema is owned by the goose migrations embedded below.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *gorm.DB
}

// Open connects to the primary, registers any read replicas and applies
// pending migrations.
func Open(ctx context.Context, dsn string, replicaDSNs []string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("POSTGRES_DSN is not set")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if len(replicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(replicaDSNs))
		for _, r := range replicaDSNs {
			replicas = append(replicas, postgres.Open(r))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		log.Info().Int("replicas", len(replicas)).Msg("Registered Postgres read replicas")
	}

	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate applies the embedded goose migrations against the primary.
func (s *Store) Migrate(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) ProjectRepo() *ProjectRepo {
	return NewProjectRepo(s.db)
}

func (s *Store) MessageRepo() *MessageRepo {
	return NewMessageRepo(s.db)
}

func (s *Store) SettingsRepo() *SettingsRepo {
	return NewSettingsRepo(s.db)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormWriter routes GORM's slow-query and error log through zerolog.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...any) {
	log.Warn().Str("component", "gorm").Msgf(format, args...)
}

func newGormLogger() logger.Interface {
	return logger.New(gormWriter{}, logger.Config{
		SlowThreshold:             2 * time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errs.ErrInvalidID
	}
	return parsed, nil
}

// translate maps GORM errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", errs.ErrAlreadyExists, err)
	default:
		return err
	}
}
