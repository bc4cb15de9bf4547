package dto

import (
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=254"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// ContactUpdateRequest changes the handling state of a message
type ContactUpdateRequest struct {
	Status   *string `json:"status" binding:"omitempty,oneof=new in_progress resolved closed"`
	Response *string `json:"response" binding:"omitempty,max=5000"`
}

// ContactQuery binds the contact listing filters
type ContactQuery struct {
	PageQuery
	Status string `form:"status" binding:"omitempty,oneof=new in_progress resolved closed"`
}

// ContactResponse represents a contact message
type ContactResponse struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Response    string     `json:"response,omitempty"`
	UserID      *uint64    `json:"userId,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewContactResponse converts a contact message
func NewContactResponse(m *entity.ContactMessage) ContactResponse {
	return ContactResponse{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Subject:     m.Subject,
		Message:     m.Body,
		Status:      string(m.Status),
		Response:    m.Response,
		UserID:      m.UserID,
		RespondedAt: m.RespondedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// NewContactResponses converts a page of contact messages
func NewContactResponses(messages []*entity.ContactMessage) []ContactResponse {
	out := make([]ContactResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, NewContactResponse(m))
	}
	return out
}
