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

type ProjectRepo struct {
	coll *mongo.Collection
}

// listSort puts featured projects first, newest first within each group.
var listSort = bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}

var recentSort = bson.D{{Key: "createdAt", Value: -1}}

func (r *ProjectRepo) find(ctx context.Context, filter any, opts *options.FindOptions) ([]models.Project, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []projectDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(docs))
	for _, d := range docs {
		projects = append(projects, d.model())
	}
	return projects, nil
}

func (r *ProjectRepo) findOne(ctx context.Context, filter any) (*models.Project, error) {
	var doc projectDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	p := doc.model()
	return &p, nil
}

func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(listSort))
}

func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	doc := newProjectDoc(*project)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}

	project.ID = doc.ID.Hex()
	return nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	oid, err := objectID(project.ID)
	if err != nil {
		return err
	}

	project.UpdatedAt = time.Now().UTC()
	doc := newProjectDoc(*project)

	// createdAt is never rewritten
	set := bson.M{
		"slug":      doc.Slug,
		"title":     doc.Title,
		"summary":   doc.Summary,
		"content":   doc.Content,
		"date":      doc.Date,
		"category":  doc.Category,
		"featured":  doc.Featured,
		"liveUrl":   doc.LiveURL,
		"githubUrl": doc.GithubURL,
		"image":     doc.Image,
		"stack":     doc.Stack,
		"tags":      doc.Tags,
		"updatedAt": doc.UpdatedAt,
	}

	var updated projectDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return translate(err)
	}

	*project = updated.model()
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) (*models.Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc projectDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	p := doc.model()
	return &p, nil
}

func (r *ProjectRepo) Count(ctx context.Context, featuredOnly bool) (int64, error) {
	filter := bson.M{}
	if featuredOnly {
		filter["featured"] = true
	}
	return r.coll.CountDocuments(ctx, filter)
}

func (r *ProjectRepo) Recent(ctx context.Context, limit int) ([]models.Project, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(recentSort).SetLimit(int64(limit)))
}

// categoryPipeline groups projects by category, largest group first.
func categoryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

func (r *ProjectRepo) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	cursor, err := r.coll.Aggregate(ctx, categoryPipeline())
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]models.CategoryCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.CategoryCount{Category: row.Category, Count: row.Count})
	}
	return out, nil
}
