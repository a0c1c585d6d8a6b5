package models

import (
	"regexp"
	"strings"
	"time"
)

// DefaultProjectCategory is applied when a project is created without a category.
const DefaultProjectCategory = "Web Development"

// Project represents a portfolio entry managed from the admin dashboard
type Project struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	Category  string    `json:"category"`
	Featured  bool      `json:"featured"`
	LiveURL   string    `json:"liveUrl,omitempty"`
	GithubURL string    `json:"githubUrl,omitempty"`
	Image     string    `json:"image,omitempty"`
	Stack     []string  `json:"stack"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectSummary is the trimmed projection shown on the admin dashboard
type ProjectSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryCount is the number of projects filed under a category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DashboardSummary returns the dashboard projection of p.
func (p Project) DashboardSummary() ProjectSummary {
	return ProjectSummary{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Category:  p.Category,
		CreatedAt: p.CreatedAt,
	}
}

// ApplyDefaults fills the fields the admin form may leave blank.
func (p *Project) ApplyDefaults(now time.Time) {
	if p.Date.IsZero() {
		p.Date = now
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = DefaultProjectCategory
	}
	if p.Stack == nil {
		p.Stack = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// Normalize trims free-text fields and drops blank list entries.
func (p *Project) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.LiveURL = strings.TrimSpace(p.LiveURL)
	p.GithubURL = strings.TrimSpace(p.GithubURL)
	p.Stack = compactStrings(p.Stack)
	p.Tags = compactStrings(p.Tags)
}

// MissingRequired reports whether any of title, summary or content is blank.
func (p Project) MissingRequired() bool {
	return strings.TrimSpace(p.Title) == "" ||
		strings.TrimSpace(p.Summary) == "" ||
		strings.TrimSpace(p.Content) == ""
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL slug for a project title.
// "Hello, World!" becomes "hello-world".
func Slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
