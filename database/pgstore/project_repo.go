package pgstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func toProjects(rows []projectRow) []models.Project {
	out := make([]models.Project, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out
}

// FindAll returns all projects, featured first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	var rows []projectRow
	err := r.db.WithContext(ctx).Order("featured DESC, created_at DESC").Find(&rows).Error
	return toProjects(rows), err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var row projectRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", pid).Error; err != nil {
		return nil, translate(err)
	}
	p := row.model()
	return &p, nil
}

func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var row projectRow
	if err := r.db.WithContext(ctx).First(&row, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	p := row.model()
	return &p, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	project.ID = uuid.NewString()
	project.CreatedAt = now
	project.UpdatedAt = now

	row := newProjectRow(*project)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		project.ID = ""
		return translate(err)
	}
	return nil
}

// Update writes every column except id and created_at, zero values included
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	pid, err := parseID(project.ID)
	if err != nil {
		return err
	}

	project.UpdatedAt = time.Now().UTC()
	row := newProjectRow(*project)

	res := r.db.WithContext(ctx).Model(&projectRow{}).
		Where("id = ?", pid).
		Select("*").Omit("id", "created_at").
		Updates(&row)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}

	var updated projectRow
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).First(&updated, "id = ?", pid).Error; err != nil {
		return translate(err)
	}
	*project = updated.model()
	return nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id string) (*models.Project, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var rows []projectRow
	res := r.db.WithContext(ctx).Clauses(clause.Returning{}).Where("id = ?", pid).Delete(&rows)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 || len(rows) == 0 {
		return nil, translate(gorm.ErrRecordNotFound)
	}

	p := rows[0].model()
	return &p, nil
}

func (r *ProjectRepo) Count(ctx context.Context, featuredOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&projectRow{})
	if featuredOnly {
		q = q.Where("featured = ?", true)
	}

	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *ProjectRepo) Recent(ctx context.Context, limit int) ([]models.Project, error) {
	var rows []projectRow
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	return toProjects(rows), err
}

// CountByCategory reads from the primary so the dashboard reflects the last write.
func (r *ProjectRepo) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	var rows []models.CategoryCount
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		Model(&projectRow{}).
		Select("category, count(*) AS count").
		Group("category").
		Order("count DESC, category ASC").
		Scan(&rows).Error
	return rows, err
}
