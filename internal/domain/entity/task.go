package entity

import (
	"net/url"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
)

// TaskStatus represents the availability of a task
type TaskStatus string

// TaskStatus constants
const (
	TaskStatusActive   TaskStatus = "active"
	TaskStatusInactive TaskStatus = "inactive"
	TaskStatusPending  TaskStatus = "pending"
)

// IsValid reports whether s is a known task status
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusActive, TaskStatusInactive, TaskStatusPending:
		return true
	}
	return false
}

// Task is an ad or action a user completes for a fixed reward
type Task struct {
	ID          uint64
	Title       string
	Description string
	Reward      int64 // kobo
	Category    string
	Link        string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether users may complete the task
func (t *Task) IsActive() bool {
	return t.Status == TaskStatusActive
}

// Validate checks the fields an admin controls
func (t *Task) Validate() error {
	t.Title = strings.TrimSpace(t.Title)
	t.Category = strings.TrimSpace(t.Category)
	t.Link = strings.TrimSpace(t.Link)

	if t.Title == "" {
		return errs.NewValidationError("title", "is required")
	}
	if len(t.Title) > 200 {
		return errs.NewValidationError("title", "is too long")
	}
	if t.Reward <= 0 {
		return errs.NewValidationError("reward", "must be greater than zero")
	}
	if t.Category == "" {
		t.Category = "general"
	}
	if !t.Status.IsValid() {
		return errs.NewValidationError("status", "must be one of active, inactive, pending")
	}
	if t.Link != "" {
		u, err := url.Parse(t.Link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errs.NewValidationError("link", "must be an http(s) URL")
		}
	}
	return nil
}
