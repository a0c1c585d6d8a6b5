package mongostore

import (
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type projectDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Slug      string             `bson:"slug"`
	Title     string             `bson:"title"`
	Summary   string             `bson:"summary"`
	Content   string             `bson:"content"`
	Date      time.Time          `bson:"date"`
	Category  string             `bson:"category"`
	Featured  bool               `bson:"featured"`
	LiveURL   string             `bson:"liveUrl,omitempty"`
	GithubURL string             `bson:"githubUrl,omitempty"`
	Image     string             `bson:"image,omitempty"`
	Stack     []string           `bson:"stack"`
	Tags      []string           `bson:"tags"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func newProjectDoc(p models.Project) projectDoc {
	oid, _ := primitive.ObjectIDFromHex(p.ID)
	return projectDoc{
		ID:        oid,
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
		Stack:     nonNil(p.Stack),
		Tags:      nonNil(p.Tags),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d projectDoc) model() models.Project {
	return models.Project{
		ID:        d.ID.Hex(),
		Slug:      d.Slug,
		Title:     d.Title,
		Summary:   d.Summary,
		Content:   d.Content,
		Date:      d.Date,
		Category:  d.Category,
		Featured:  d.Featured,
		LiveURL:   d.LiveURL,
		GithubURL: d.GithubURL,
		Image:     d.Image,
		Stack:     nonNil(d.Stack),
		Tags:      nonNil(d.Tags),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type messageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	Read      bool               `bson:"read"`
	Replied   bool               `bson:"replied"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func newMessageDoc(m models.Message) messageDoc {
	oid, _ := primitive.ObjectIDFromHex(m.ID)
	return messageDoc{
		ID:        oid,
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

func (d messageDoc) model() models.Message {
	return models.Message{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Subject:   d.Subject,
		Message:   d.Message,
		Read:      d.Read,
		Replied:   d.Replied,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type skillDoc struct {
	Name  string `bson:"name"`
	Level int    `bson:"level"`
}

type socialLinksDoc struct {
	Github    string `bson:"github"`
	Linkedin  string `bson:"linkedin"`
	Twitter   string `bson:"twitter"`
	Instagram string `bson:"instagram"`
	Youtube   string `bson:"youtube"`
}

type settingsDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Key          string             `bson:"key,omitempty"`
	SiteName     string             `bson:"siteName"`
	OwnerName    string             `bson:"ownerName"`
	Title        string             `bson:"title"`
	Bio          string             `bson:"bio"`
	Location     string             `bson:"location"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone"`
	Availability bool               `bson:"availability"`
	ProfileImage string             `bson:"profileImage"`
	ResumeURL    string             `bson:"resumeUrl"`
	SocialLinks  socialLinksDoc     `bson:"socialLinks"`
	Skills       []skillDoc         `bson:"skills"`
	Technologies []string           `bson:"technologies"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func newSettingsDoc(s models.Settings) settingsDoc {
	skills := make([]skillDoc, 0, len(s.Skills))
	for _, sk := range s.Skills {
		skills = append(skills, skillDoc{Name: sk.Name, Level: sk.Level})
	}
	return settingsDoc{
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
		SocialLinks:  socialLinksDoc(s.SocialLinks),
		Skills:       skills,
		Technologies: nonNil(s.Technologies),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (d settingsDoc) model() models.Settings {
	skills := make([]models.Skill, 0, len(d.Skills))
	for _, sk := range d.Skills {
		skills = append(skills, models.Skill{Name: sk.Name, Level: sk.Level})
	}
	return models.Settings{
		ID:           d.ID.Hex(),
		SiteName:     d.SiteName,
		OwnerName:    d.OwnerName,
		Title:        d.Title,
		Bio:          d.Bio,
		Location:     d.Location,
		Email:        d.Email,
		Phone:        d.Phone,
		Availability: d.Availability,
		ProfileImage: d.ProfileImage,
		ResumeURL:    d.ResumeURL,
		SocialLinks:  models.SocialLinks(d.SocialLinks),
		Skills:       skills,
		Technologies: nonNil(d.Technologies),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
