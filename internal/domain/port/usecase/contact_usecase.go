package usecase

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
)

// ContactInput is a contact form submission
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
	UserID  *uint64
}

// ContactUpdate changes the handling state of a message; nil fields are left alone
type ContactUpdate struct {
	Status   *entity.ContactStatus
	Response *string
}

// ContactUseCase defines contact intake and handling
type ContactUseCase interface {
	Submit(ctx context.Context, input ContactInput) (*entity.ContactMessage, error)
	Get(ctx context.Context, id uint64) (*entity.ContactMessage, error)
	List(ctx context.Context, filter persistence.ContactFilter) ([]*entity.ContactMessage, int64, error)
	Update(ctx context.Context, id uint64, update ContactUpdate) (*entity.ContactMessage, error)
}
