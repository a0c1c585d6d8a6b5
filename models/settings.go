package models

import (
	"fmt"
	"strings"
	"time"
)

// SettingsKey identifies the singleton settings document in every store.
const SettingsKey = "site"

// Skill is a named proficiency shown on the about page
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// SocialLinks holds the owner's profile URLs
type SocialLinks struct {
	Github    string `json:"github"`
	Linkedin  string `json:"linkedin"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	Youtube   string `json:"youtube"`
}

// Settings is the site-wide profile configuration. Exactly one exists.
type Settings struct {
	ID           string      `json:"id"`
	SiteName     string      `json:"siteName"`
	OwnerName    string      `json:"ownerName"`
	Title        string      `json:"title"`
	Bio          string      `json:"bio"`
	Location     string      `json:"location"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Availability bool        `json:"availability"`
	ProfileImage string      `json:"profileImage"`
	ResumeURL    string      `json:"resumeUrl"`
	SocialLinks  SocialLinks `json:"socialLinks"`
	Skills       []Skill     `json:"skills"`
	Technologies []string    `json:"technologies"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// DefaultSettings returns the document created on the first read.
func DefaultSettings() Settings {
	return Settings{
		SiteName:     "My Portfolio",
		OwnerName:    "Garali Abdesslem",
		Title:        "Full Stack Developer",
		Bio:          "I'm a passionate full-stack developer with over 5 years of experience building modern web applications.",
		Location:     "Tunisia",
		Availability: true,
		ResumeURL:    "/resume.pdf",
		SocialLinks: SocialLinks{
			Github:   "https://github.com/garaliabdesslem",
			Linkedin: "https://linkedin.com/in/garaliabdesslem",
			Twitter:  "https://twitter.com/garaliabdesslem",
		},
		Skills: []Skill{
			{Name: "JavaScript", Level: 95},
			{Name: "TypeScript", Level: 90},
			{Name: "React", Level: 95},
			{Name: "Next.js", Level: 90},
			{Name: "Node.js", Level: 85},
			{Name: "Python", Level: 80},
			{Name: "PostgreSQL", Level: 85},
			{Name: "MongoDB", Level: 80},
		},
		Technologies: []string{
			"React", "Next.js", "TypeScript", "Node.js", "Python",
			"PostgreSQL", "MongoDB", "Redis", "AWS", "Docker",
			"Tailwind CSS", "Framer Motion", "Prisma",
		},
	}
}

// Validate checks the skill list, the only constrained part of the document.
func (s Settings) Validate() error {
	for i, skill := range s.Skills {
		if strings.TrimSpace(skill.Name) == "" {
			return fmt.Errorf("skills[%d].name is required", i)
		}
		if skill.Level < 0 || skill.Level > 100 {
			return fmt.Errorf("skills[%d].level must be between 0 and 100", i)
		}
	}
	return nil
}

// Normalize trims technologies and guarantees non-nil lists.
func (s *Settings) Normalize() {
	s.Technologies = compactStrings(s.Technologies)
	if s.Skills == nil {
		s.Skills = []Skill{}
	}
}
