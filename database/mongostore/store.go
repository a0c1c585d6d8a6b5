// Package mongostore implements the repositories on MongoDB, the store the
// portfolio was first deployed on.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	projectsCollection = "projects"
	messagesCollection = "messages"
	settingsCollection = "settings"
)

type Store struct {
	client   *mongo.Client
	projects *mongo.Collection
	messages *mongo.Collection
	settings *mongo.Collection
}

// Open connects, verifies the connection and ensures the indexes exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, errors.New("MONGODB_URI is not set")
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		projects: db.Collection(projectsCollection),
		messages: db.Collection(messagesCollection),
		settings: db.Collection(settingsCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Info().Str("database", database).Msg("Connected to MongoDB")
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.projects.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("create project indexes: %w", err)
	}

	if _, err := s.messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "read", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("create message indexes: %w", err)
	}

	if _, err := s.settings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create settings index: %w", err)
	}

	return nil
}

func (s *Store) ProjectRepo() *ProjectRepo {
	return &ProjectRepo{coll: s.projects}
}

func (s *Store) MessageRepo() *MessageRepo {
	return &MessageRepo{coll: s.messages}
}

func (s *Store) SettingsRepo() *SettingsRepo {
	return &SettingsRepo{coll: s.settings}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errs.ErrInvalidID
	}
	return oid, nil
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return errs.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", errs.ErrAlreadyExists, err)
	default:
		return err
	}
}
