package models

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// Message is a contact-form submission
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Replied   bool      `json:"replied"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MessageSummary is the trimmed projection shown on the admin dashboard
type MessageSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageFilter selects a page of messages, newest first
type MessageFilter struct {
	Read  *bool
	Page  int
	Limit int
}

// Skip is the number of messages before the requested page. It saturates
// instead of overflowing, leaving room to add Limit.
func (f MessageFilter) Skip() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > (math.MaxInt-f.Limit)/f.Limit {
		return math.MaxInt - f.Limit
	}
	return (f.Page - 1) * f.Limit
}

// MessageStatus carries the only two fields an admin may change on a message.
// Nil fields are left untouched.
type MessageStatus struct {
	Read    *bool `json:"read"`
	Replied *bool `json:"replied"`
}

// Empty reports whether the update would change nothing.
func (s MessageStatus) Empty() bool {
	return s.Read == nil && s.Replied == nil
}

// Apply copies the set flags onto m.
func (s MessageStatus) Apply(m *Message) {
	if s.Read != nil {
		m.Read = *s.Read
	}
	if s.Replied != nil {
		m.Replied = *s.Replied
	}
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Normalize trims the sender fields and lower-cases the address.
func (m *Message) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)
}

// DashboardSummary returns the dashboard projection of m.
func (m Message) DashboardSummary() MessageSummary {
	return MessageSummary{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}
