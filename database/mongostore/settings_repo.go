package mongostore

import (
	"context"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SettingsRepo struct {
	coll *mongo.Collection
}

var settingsFilter = bson.M{"key": models.SettingsKey}

// GetOrCreate upserts the defaults with $setOnInsert, so concurrent first
// reads converge on one document. Two racing upserts can still collide on the
// unique key index; the loser simply reads the winner's document.
func (r *SettingsRepo) GetOrCreate(ctx context.Context, defaults models.Settings) (*models.Settings, error) {
	now := time.Now().UTC()
	defaults.CreatedAt = now
	defaults.UpdatedAt = now
	doc := newSettingsDoc(defaults)

	var stored settingsDoc
	err := r.coll.FindOneAndUpdate(ctx, settingsFilter, bson.M{"$setOnInsert": doc},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		err = r.coll.FindOne(ctx, settingsFilter).Decode(&stored)
	}
	if err != nil {
		return nil, translate(err)
	}

	s := stored.model()
	return &s, nil
}

func (r *SettingsRepo) Save(ctx context.Context, settings *models.Settings) error {
	settings.UpdatedAt = time.Now().UTC()
	doc := newSettingsDoc(*settings)

	set := bson.M{
		"siteName":     doc.SiteName,
		"ownerName":    doc.OwnerName,
		"title":        doc.Title,
		"bio":          doc.Bio,
		"location":     doc.Location,
		"email":        doc.Email,
		"phone":        doc.Phone,
		"availability": doc.Availability,
		"profileImage": doc.ProfileImage,
		"resumeUrl":    doc.ResumeURL,
		"socialLinks":  doc.SocialLinks,
		"skills":       doc.Skills,
		"technologies": doc.Technologies,
		"updatedAt":    doc.UpdatedAt,
	}

	var stored settingsDoc
	err := r.coll.FindOneAndUpdate(ctx, settingsFilter,
		bson.M{"$set": set, "$setOnInsert": bson.M{"createdAt": doc.UpdatedAt}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&stored)
	if err != nil {
		return translate(err)
	}

	*settings = stored.model()
	return nil
}
