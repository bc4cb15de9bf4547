package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// AdminRepository stores admin accounts
type AdminRepository interface {
	// Create saves a new admin account
	//
	// Possible errors:
	// - ErrDuplicateUser: If the username is taken
	Create(ctx context.Context, admin *entity.AdminAccount) error

	// GetByUsername retrieves an admin by username
	//
	// Possible errors:
	// - ErrNotFound: If no such admin exists
	GetByUsername(ctx context.Context, username string) (*entity.AdminAccount, error)

	GetByID(ctx context.Context, id uint64) (*entity.AdminAccount, error)
	UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error
}
