package pgstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type MessageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db}
}

func toMessages(rows []messageRow) []models.Message {
	out := make([]models.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out
}

func (r *MessageRepo) filtered(ctx context.Context, f models.MessageFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&messageRow{})
	if f.Read != nil {
		q = q.Where("read = ?", *f.Read)
	}
	return q
}

func (r *MessageRepo) Find(ctx context.Context, f models.MessageFilter) ([]models.Message, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.filtered(ctx, f).Order("created_at DESC").Offset(f.Skip())
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []messageRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toMessages(rows), total, nil
}

func (r *MessageRepo) FindByID(ctx context.Context, id string) (*models.Message, error) {
	mid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var row messageRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", mid).Error; err != nil {
		return nil, translate(err)
	}
	m := row.model()
	return &m, nil
}

func (r *MessageRepo) Add(ctx context.Context, message *models.Message) error {
	now := time.Now().UTC()
	message.ID = uuid.NewString()
	message.CreatedAt = now
	message.UpdatedAt = now

	row := newMessageRow(*message)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		message.ID = ""
		return translate(err)
	}
	return nil
}

// statusColumns lists only the flags present in s.
func statusColumns(s models.MessageStatus, now time.Time) map[string]any {
	cols := map[string]any{"updated_at": now}
	if s.Read != nil {
		cols["read"] = *s.Read
	}
	if s.Replied != nil {
		cols["replied"] = *s.Replied
	}
	return cols
}

func (r *MessageRepo) SetStatus(ctx context.Context, id string, status models.MessageStatus) (*models.Message, error) {
	mid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Model(&messageRow{}).
		Where("id = ?", mid).
		Updates(statusColumns(status, time.Now().UTC()))
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound)
	}

	var updated messageRow
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).First(&updated, "id = ?", mid).Error; err != nil {
		return nil, translate(err)
	}

	m := updated.model()
	return &m, nil
}

func (r *MessageRepo) Delete(ctx context.Context, id string) error {
	mid, err := parseID(id)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Delete(&messageRow{}, "id = ?", mid)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *MessageRepo) Count(ctx context.Context, unreadOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&messageRow{})
	if unreadOnly {
		q = q.Where("read = ?", false)
	}

	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *MessageRepo) Recent(ctx context.Context, limit int) ([]models.Message, error) {
	var rows []messageRow
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	return toMessages(rows), err
}
