// Package memstore keeps every collection in process memory. It backs local
// development without a database and the handler tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type Store struct {
	mu       sync.RWMutex
	projects map[string]models.Project
	messages map[string]models.Message
	settings *models.Settings
	now      func() time.Time
	last     time.Time
}

func New() *Store {
	return &Store{
		projects: make(map[string]models.Project),
		messages: make(map[string]models.Message),
		now:      time.Now,
	}
}

// tick returns a strictly increasing timestamp so newest-first ordering is
// total. Callers hold the write lock.
func (s *Store) tick() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *Store) ProjectRepo() *ProjectRepo { return &ProjectRepo{s} }
func (s *Store) MessageRepo() *MessageRepo { return &MessageRepo{s} }
func (s *Store) SettingsRepo() *SettingsRepo { return &SettingsRepo{s} }

func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", errs.ErrInvalidID
	}
	return parsed.String(), nil
}

// copies keep callers from mutating stored state through shared slices

func cloneProject(p models.Project) models.Project {
	p.Stack = append([]string{}, p.Stack...)
	p.Tags = append([]string{}, p.Tags...)
	return p
}

func cloneSettings(s models.Settings) models.Settings {
	s.Skills = append([]models.Skill{}, s.Skills...)
	s.Technologies = append([]string{}, s.Technologies...)
	return s
}

type ProjectRepo struct {
	s *Store
}

func (r *ProjectRepo) FindAll(_ context.Context) ([]models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		out = append(out, cloneProject(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Featured != out[j].Featured {
			return out[i].Featured
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ProjectRepo) FindByID(_ context.Context, id string) (*models.Project, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	p = cloneProject(p)
	return &p, nil
}

func (r *ProjectRepo) FindBySlug(_ context.Context, slug string) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.projects {
		if p.Slug == slug {
			p = cloneProject(p)
			return &p, nil
		}
	}
	return nil, errs.ErrNotFound
}

// slugTakenLocked must be called with the write lock held.
func (r *ProjectRepo) slugTakenLocked(slug, exceptID string) bool {
	for id, p := range r.s.projects {
		if p.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (r *ProjectRepo) Add(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.slugTakenLocked(project.Slug, "") {
		return errs.ErrAlreadyExists
	}

	now := r.s.tick()
	project.ID = uuid.NewString()
	project.CreatedAt = now
	project.UpdatedAt = now
	r.s.projects[project.ID] = cloneProject(*project)
	return nil
}

func (r *ProjectRepo) Update(_ context.Context, project *models.Project) error {
	key, err := parseID(project.ID)
	if err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.projects[key]
	if !ok {
		return errs.ErrNotFound
	}
	if r.slugTakenLocked(project.Slug, key) {
		return errs.ErrAlreadyExists
	}

	project.ID = key
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = r.s.tick()
	r.s.projects[key] = cloneProject(*project)
	return nil
}

func (r *ProjectRepo) Delete(_ context.Context, id string) (*models.Project, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	delete(r.s.projects, key)
	return &p, nil
}

func (r *ProjectRepo) Count(_ context.Context, featuredOnly bool) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, p := range r.s.projects {
		if !featuredOnly || p.Featured {
			n++
		}
	}
	return n, nil
}

func (r *ProjectRepo) Recent(_ context.Context, limit int) ([]models.Project, error) {
	r.s.mu.RLock()
	out := make([]models.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		out = append(out, cloneProject(p))
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ProjectRepo) CountByCategory(_ context.Context) ([]models.CategoryCount, error) {
	r.s.mu.RLock()
	counts := make(map[string]int64)
	for _, p := range r.s.projects {
		counts[p.Category]++
	}
	r.s.mu.RUnlock()

	out := make([]models.CategoryCount, 0, len(counts))
	for category, n := range counts {
		out = append(out, models.CategoryCount{Category: category, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

type MessageRepo struct {
	s *Store
}

func (r *MessageRepo) sortedLocked(match func(models.Message) bool) []models.Message {
	out := make([]models.Message, 0, len(r.s.messages))
	for _, m := range r.s.messages {
		if match == nil || match(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *MessageRepo) Find(_ context.Context, filter models.MessageFilter) ([]models.Message, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var match func(models.Message) bool
	if filter.Read != nil {
		want := *filter.Read
		match = func(m models.Message) bool { return m.Read == want }
	}
	all := r.sortedLocked(match)
	total := int64(len(all))

	start := filter.Skip()
	if start >= len(all) {
		return []models.Message{}, total, nil
	}
	end := len(all)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return all[start:end], total, nil
}

func (r *MessageRepo) FindByID(_ context.Context, id string) (*models.Message, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.messages[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &m, nil
}

func (r *MessageRepo) Add(_ context.Context, message *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.tick()
	message.ID = uuid.NewString()
	message.CreatedAt = now
	message.UpdatedAt = now
	r.s.messages[message.ID] = *message
	return nil
}

func (r *MessageRepo) SetStatus(_ context.Context, id string, status models.MessageStatus) (*models.Message, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.messages[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	status.Apply(&m)
	m.UpdatedAt = r.s.tick()
	r.s.messages[key] = m
	return &m, nil
}

func (r *MessageRepo) Delete(_ context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.messages[key]; !ok {
		return errs.ErrNotFound
	}
	delete(r.s.messages, key)
	return nil
}

func (r *MessageRepo) Count(_ context.Context, unreadOnly bool) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, m := range r.s.messages {
		if !unreadOnly || !m.Read {
			n++
		}
	}
	return n, nil
}

func (r *MessageRepo) Recent(_ context.Context, limit int) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := r.sortedLocked(nil)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type SettingsRepo struct {
	s *Store
}

func (r *SettingsRepo) GetOrCreate(_ context.Context, defaults models.Settings) (*models.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.settings == nil {
		now := r.s.tick()
		created := cloneSettings(defaults)
		created.ID = models.SettingsKey
		created.CreatedAt = now
		created.UpdatedAt = now
		r.s.settings = &created
	}

	out := cloneSettings(*r.s.settings)
	return &out, nil
}

func (r *SettingsRepo) Save(_ context.Context, settings *models.Settings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.tick()
	settings.ID = models.SettingsKey
	if r.s.settings != nil {
		settings.CreatedAt = r.s.settings.CreatedAt
	} else {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	stored := cloneSettings(*settings)
	r.s.settings = &stored
	return nil
}
