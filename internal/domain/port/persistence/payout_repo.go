package persistence

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// PayoutRepository stores payout requests
type PayoutRepository interface {
	Create(ctx context.Context, payout *entity.Payout) error

	// GetByID retrieves a payout
	//
	// Possible errors:
	// - ErrPayoutNotFound: If the payout doesn't exist
	GetByID(ctx context.Context, id uint64) (*entity.Payout, error)

	// GetByIDForUpdate retrieves a payout and locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uint64) (*entity.Payout, error)

	// UpdateStatus saves the status, note and processing time
	UpdateStatus(ctx context.Context, payout *entity.Payout) error

	List(ctx context.Context, filter PayoutFilter) ([]*entity.Payout, int64, error)

	// PendingTotals returns the number and summed amount of pending payouts
	PendingTotals(ctx context.Context) (count int64, amount int64, err error)
}
