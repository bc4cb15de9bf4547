package dto

import (
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// AdminLoginRequest represents the API request for a staff login
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
}

// AdminAuthResponse represents a freshly issued staff session
type AdminAuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// UserQuery binds the admin user listing filters
type UserQuery struct {
	PageQuery
	Search string `form:"search" binding:"max=100"`
}

// UserUpdateRequest changes admin-editable user fields
type UserUpdateRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	EmailVerified *bool   `json:"emailVerified"`
}

// UserResponse represents a user as seen by staff
type UserResponse struct {
	ID            uint64    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	ReferralCode  string    `json:"referralCode"`
	ReferredBy    *uint64   `json:"referredBy,omitempty"`
	Balance       string    `json:"balance"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UserDetailResponse is a user with their most recent ledger entries
type UserDetailResponse struct {
	UserResponse
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}

// DashboardResponse summarizes the system for staff
type DashboardResponse struct {
	Users               int64  `json:"users"`
	TotalBalance        string `json:"totalBalance"`
	ActiveTasks         int64  `json:"activeTasks"`
	PendingPayouts      int64  `json:"pendingPayouts"`
	PendingPayoutAmount string `json:"pendingPayoutAmount"`
	NewContactMessages  int64  `json:"newContactMessages"`
}

// EmailRequest represents an email composed by staff
type EmailRequest struct {
	To      string `json:"to" binding:"required,email,max=254"`
	ToName  string `json:"toName" binding:"max=100"`
	Subject string `json:"subject" binding:"required,max=200"`
	Body    string `json:"body" binding:"required,max=20000"`
}

// NewUserResponse converts a user
func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		ReferralCode:  user.ReferralCode,
		ReferredBy:    user.ReferredBy,
		Balance:       user.GetBalance(),
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// NewUserResponses converts a page of users
func NewUserResponses(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}

// NewDashboardResponse converts dashboard stats
func NewDashboardResponse(stats *entity.DashboardStats) DashboardResponse {
	return DashboardResponse{
		Users:               stats.Users,
		TotalBalance:        entity.FormatAmount(stats.TotalBalance),
		ActiveTasks:         stats.ActiveTasks,
		PendingPayouts:      stats.PendingPayouts,
		PendingPayoutAmount: entity.FormatAmount(stats.PendingPayoutAmount),
		NewContactMessages:  stats.NewContactMessages,
	}
}
