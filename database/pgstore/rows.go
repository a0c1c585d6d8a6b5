package pgstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/datatypes"
)

type projectRow struct {
	ID        uuid.UUID                   `db:"id" gorm:"type:uuid;primaryKey;not null"`
	Slug      string                      `db:"slug" gorm:"type:text;not null;unique"`
	Title     string                      `db:"title" gorm:"type:text;not null"`
	Summary   string                      `db:"summary" gorm:"type:text;not null"`
	Content   string                      `db:"content" gorm:"type:text;not null"`
	Date      time.Time                   `db:"date" gorm:"not null"`
	Category  string                      `db:"category" gorm:"type:text;not null"`
	Featured  bool                        `db:"featured" gorm:"not null"`
	LiveURL   string                      `db:"live_url" gorm:"type:text;not null"`
	GithubURL string                      `db:"github_url" gorm:"type:text;not null"`
	Image     string                      `db:"image" gorm:"type:text;not null"`
	Stack     datatypes.JSONSlice[string] `db:"stack" gorm:"type:jsonb;not null"`
	Tags      datatypes.JSONSlice[string] `db:"tags" gorm:"type:jsonb;not null"`
	CreatedAt time.Time                   `db:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time                   `db:"updated_at" gorm:"not null;autoUpdateTime:false"`
}

func (projectRow) TableName() string { return "projects" }

func newProjectRow(p models.Project) projectRow {
	id, _ := uuid.Parse(p.ID)
	return projectRow{
		ID:        id,
		Slug:      p.Slug,
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		Date:      p.Date,
		Category:  p.Category,
		Featured:  p.Featured,
		LiveURL:   p.LiveURL,
		GithubURL: p.GithubURL,
		Image:     p.Image,
		Stack:     datatypes.JSONSlice[string](nonNil(p.Stack)),
		Tags:      datatypes.JSONSlice[string](nonNil(p.Tags)),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r projectRow) model() models.Project {
	return models.Project{
		ID:        r.ID.String(),
		Slug:      r.Slug,
		Title:     r.Title,
		Summary:   r.Summary,
		Content:   r.Content,
		Date:      r.Date,
		Category:  r.Category,
		Featured:  r.Featured,
		LiveURL:   r.LiveURL,
		GithubURL: r.GithubURL,
		Image:     r.Image,
		Stack:     nonNil(r.Stack),
		Tags:      nonNil(r.Tags),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type messageRow struct {
	ID        uuid.UUID `db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `db:"name" gorm:"type:text;not null"`
	Email     string    `db:"email" gorm:"type:text;not null"`
	Subject   string    `db:"subject" gorm:"type:text;not null"`
	Message   string    `db:"message" gorm:"type:text;not null"`
	Read      bool      `db:"read" gorm:"not null"`
	Replied   bool      `db:"replied" gorm:"not null"`
	CreatedAt time.Time `db:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `db:"updated_at" gorm:"not null;autoUpdateTime:false"`
}

func (messageRow) TableName() string { return "messages" }

func newMessageRow(m models.Message) messageRow {
	id, _ := uuid.Parse(m.ID)
	return messageRow{
		ID:        id,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		Read:      m.Read,
		Replied:   m.Replied,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r messageRow) model() models.Message {
	return models.Message{
		ID:        r.ID.String(),
		Name:      r.Name,
		Email:     r.Email,
		Subject:   r.Subject,
		Message:   r.Message,
		Read:      r.Read,
		Replied:   r.Replied,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type settingsRow struct {
	Key          string                                 `db:"key" gorm:"type:text;primaryKey"`
	SiteName     string                                 `db:"site_name" gorm:"type:text;not null"`
	OwnerName    string                                 `db:"owner_name" gorm:"type:text;not null"`
	Title        string                                 `db:"title" gorm:"type:text;not null"`
	Bio          string                                 `db:"bio" gorm:"type:text;not null"`
	Location     string                                 `db:"location" gorm:"type:text;not null"`
	Email        string                                 `db:"email" gorm:"type:text;not null"`
	Phone        string                                 `db:"phone" gorm:"type:text;not null"`
	Availability bool                                   `db:"availability" gorm:"not null"`
	ProfileImage string                                 `db:"profile_image" gorm:"type:text;not null"`
	ResumeURL    string                                 `db:"resume_url" gorm:"type:text;not null"`
	SocialLinks  datatypes.JSONType[models.SocialLinks] `db:"social_links" gorm:"type:jsonb;not null"`
	Skills       datatypes.JSONSlice[models.Skill]      `db:"skills" gorm:"type:jsonb;not null"`
	Technologies datatypes.JSONSlice[string]            `db:"technologies" gorm:"type:jsonb;not null"`
	CreatedAt    time.Time                              `db:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt    time.Time                              `db:"updated_at" gorm:"not null;autoUpdateTime:false"`
}

func (settingsRow) TableName() string { return "settings" }

func newSettingsRow(s models.Settings) settingsRow {
	skills := s.Skills
	if skills == nil {
		skills = []models.Skill{}
	}
	return settingsRow{
		Key:          models.SettingsKey,
		SiteName:     s.SiteName,
		OwnerName:    s.OwnerName,
		Title:        s.Title,
		Bio:          s.Bio,
		Location:     s.Location,
		Email:        s.Email,
		Phone:        s.Phone,
		Availability: s.Availability,
		ProfileImage: s.ProfileImage,
		ResumeURL:    s.ResumeURL,
		SocialLinks:  datatypes.NewJSONType(s.SocialLinks),
		Skills:       datatypes.JSONSlice[models.Skill](skills),
		Technologies: datatypes.JSONSlice[string](nonNil(s.Technologies)),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (r settingsRow) model() models.Settings {
	skills := []models.Skill(r.Skills)
	if skills == nil {
		skills = []models.Skill{}
	}
	return models.Settings{
		ID:           r.Key,
		SiteName:     r.SiteName,
		OwnerName:    r.OwnerName,
		Title:        r.Title,
		Bio:          r.Bio,
		Location:     r.Location,
		Email:        r.Email,
		Phone:        r.Phone,
		Availability: r.Availability,
		ProfileImage: r.ProfileImage,
		ResumeURL:    r.ResumeURL,
		SocialLinks:  r.SocialLinks.Data(),
		Skills:       skills,
		Technologies: nonNil(r.Technologies),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
