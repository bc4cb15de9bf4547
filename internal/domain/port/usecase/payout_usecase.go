package usecase

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
)

// PayoutRequest is a user's withdrawal request
type PayoutRequest struct {
	UserID         uint64
	Amount         int64
	Destination    entity.PayoutDestination
	IdempotencyKey string
}

// PayoutResult is the outcome of a payout request
type PayoutResult struct {
	Payout     *entity.Payout
	NewBalance int64
	Replayed   bool
}

// PayoutUseCase defines payout requests and their administration
type PayoutUseCase interface {
	// RequestPayout holds the amount by debiting the balance and records a pending payout
	RequestPayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error)
	ListUserPayouts(ctx context.Context, userID uint64, page entity.Page) ([]*entity.Payout, int64, error)

	GetPayout(ctx context.Context, id uint64) (*entity.Payout, error)
	ListPayouts(ctx context.Context, filter persistence.PayoutFilter) ([]*entity.Payout, int64, error)

	// TransitionPayout applies an admin status change; rejection refunds the held amount
	TransitionPayout(ctx context.Context, id uint64, target entity.PayoutStatus, note string) (*entity.Payout, error)
}
