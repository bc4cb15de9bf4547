package entity

import (
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
)

// ContactStatus represents the handling state of a support message
type ContactStatus string

// ContactStatus constants
const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in_progress"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusClosed     ContactStatus = "closed"
)

// IsValid reports whether s is a known contact status
func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResolved, ContactStatusClosed:
		return true
	}
	return false
}

// ContactMessage is a support request sent through the contact form
type ContactMessage struct {
	ID          uint64
	Name        string
	Email       string
	Subject     string
	Body        string
	Status      ContactStatus
	Response    string
	UserID      *uint64
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewContactMessage validates and builds a new message
func NewContactMessage(name, email, subject, body string, userID *uint64, timeProvider coreport.TimeProvider) (*ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)

	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if subject == "" {
		return nil, errs.NewValidationError("subject", "is required")
	}
	if len(subject) > 200 {
		return nil, errs.NewValidationError("subject", "is too long")
	}
	if body == "" {
		return nil, errs.NewValidationError("message", "is required")
	}
	if len(body) > 5000 {
		return nil, errs.NewValidationError("message", "is too long")
	}

	now := timeProvider.Now()
	return &ContactMessage{
		Name:      name,
		Email:     email,
		Subject:   subject,
		Body:      body,
		Status:    ContactStatusNew,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Respond records an admin response and stamps the response time
func (m *ContactMessage) Respond(response string, timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	m.Response = strings.TrimSpace(response)
	m.RespondedAt = &now
	m.UpdatedAt = now
}
