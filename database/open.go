package database

import (
	"context"
	"fmt"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database/memstore"
	"github.com/rpupo63/portfolio-backend/database/mongostore"
	"github.com/rpupo63/portfolio-backend/database/pgstore"
	"github.com/rs/zerolog/log"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open connects the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Database, error) {
	switch cfg.Driver {
	case DriverMongo, "mongodb", "":
		s, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return Database{}, err
		}
		return New(s.ProjectRepo(), s.MessageRepo(), s.SettingsRepo(),
			WithPing(s.Ping), WithClose(s.Close)), nil

	case DriverPostgres:
		s, err := pgstore.Open(ctx, cfg.PostgresDSN, cfg.PostgresReplicas)
		if err != nil {
			return Database{}, err
		}
		return New(s.ProjectRepo(), s.MessageRepo(), s.SettingsRepo(),
			WithPing(s.Ping), WithClose(s.Close)), nil

	case DriverMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return NewMemory(), nil

	default:
		return Database{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Driver)
	}
}

// NewMemory returns a Database backed by a fresh in-process store.
func NewMemory() Database {
	s := memstore.New()
	return New(s.ProjectRepo(), s.MessageRepo(), s.SettingsRepo())
}

var (
	_ ProjectRepo  = (*memstore.ProjectRepo)(nil)
	_ MessageRepo  = (*memstore.MessageRepo)(nil)
	_ SettingsRepo = (*memstore.SettingsRepo)(nil)
	_ ProjectRepo  = (*mongostore.ProjectRepo)(nil)
	_ MessageRepo  = (*mongostore.MessageRepo)(nil)
	_ SettingsRepo = (*mongostore.SettingsRepo)(nil)
	_ ProjectRepo  = (*pgstore.ProjectRepo)(nil)
	_ MessageRepo  = (*pgstore.MessageRepo)(nil)
	_ SettingsRepo = (*pgstore.SettingsRepo)(nil)
)
