package persistence

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// ContactRepository stores contact form messages
type ContactRepository interface {
	Create(ctx context.Context, message *entity.ContactMessage) error

	// GetByID retrieves a message
	//
	// Possible errors:
	// - ErrContactNotFound: If the message doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.ContactMessage, error)

	Update(ctx context.Context, message *entity.ContactMessage) error
	List(ctx context.Context, filter ContactFilter) ([]*entity.ContactMessage, int64, error)
	CountByStatus(ctx context.Context, status entity.ContactStatus) (int64, error)
}
