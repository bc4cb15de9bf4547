package entity

import "time"

// Role is the authorization role carried by a session
type Role string

// Roles
const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleSupport Role = "support"
)

// IsStaff reports whether the role belongs to an admin account
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSupport
}

// AdminAccount is a dashboard operator
type AdminAccount struct {
	ID           uint64
	Username     string
	PasswordHash string
	Role         Role
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is the verified identity behind a request
type Session struct {
	SubjectID uint64
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

// IsStaff reports whether the session belongs to an admin account
func (s *Session) IsStaff() bool {
	return s.Role.IsStaff()
}

// Page is a limit/offset window over a listing
type Page struct {
	Limit  int
	Offset int
}

// Page bounds
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize clamps the page into allowed bounds
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// DashboardStats summarizes the system for the admin dashboard
type DashboardStats struct {
	Users               int64
	TotalBalance        int64
	ActiveTasks         int64
	PendingPayouts      int64
	PendingPayoutAmount int64
	NewContactMessages  int64
}
