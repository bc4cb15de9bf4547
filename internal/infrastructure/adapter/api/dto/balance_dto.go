package dto

import (
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// SignupRequest represents the API request for creating an account
type SignupRequest struct {
	Email        string `json:"email" binding:"required,email,max=254"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	Name         string `json:"name" binding:"required,max=100"`
	ReferralCode string `json:"referralCode" binding:"omitempty,referralcode"`
}

// LoginRequest represents the API request for a user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest carries the token from a verification link
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required,max=64"`
}

// AuthResponse represents a freshly issued user session
type AuthResponse struct {
	Token           string          `json:"token"`
	ExpiresAt       time.Time       `json:"expiresAt"`
	User            *entity.Profile `json:"user"`
	ReferralApplied *bool           `json:"referralApplied,omitempty"`
}
