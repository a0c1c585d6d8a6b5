package mongostore

import (
	"context"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo struct {
	coll *mongo.Collection
}

func messageFilter(f models.MessageFilter) bson.M {
	filter := bson.M{}
	if f.Read != nil {
		filter["read"] = *f.Read
	}
	return filter
}

func statusUpdate(s models.MessageStatus, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if s.Read != nil {
		set["read"] = *s.Read
	}
	if s.Replied != nil {
		set["replied"] = *s.Replied
	}
	return bson.M{"$set": set}
}

func (r *MessageRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Message, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []messageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]models.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *MessageRepo) Find(ctx context.Context, f models.MessageFilter) ([]models.Message, int64, error) {
	filter := messageFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(recentSort).SetSkip(int64(f.Skip()))
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	messages, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *MessageRepo) FindByID(ctx context.Context, id string) (*models.Message, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc messageDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	m := doc.model()
	return &m, nil
}

func (r *MessageRepo) Add(ctx context.Context, message *models.Message) error {
	now := time.Now().UTC()
	message.CreatedAt = now
	message.UpdatedAt = now

	doc := newMessageDoc(*message)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}

	message.ID = doc.ID.Hex()
	return nil
}

func (r *MessageRepo) SetStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc messageDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, statusUpdate(status, time.Now().UTC()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	m := doc.model()
	return &m, nil
}

func (r *MessageRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	return translate(r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Err())
}

func (r *MessageRepo) Count(ctx context.Context, unreadOnly bool) (int64, error) {
	filter := bson.M{}
	if unreadOnly {
		filter["read"] = false
	}
	return r.coll.CountDocuments(ctx, filter)
}

func (r *MessageRepo) Recent(ctx context.Context, limit int) ([]models.Message, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(recentSort).SetLimit(int64(limit)))
}
