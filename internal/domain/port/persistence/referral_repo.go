package persistence

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// ReferralRepository stores referral links
type ReferralRepository interface {
	// Create saves a referral
	//
	// Possible errors:
	// - ErrDuplicateEntry: If the referred user already has a referral
	Create(ctx context.Context, referral *entity.Referral) error

	ListByReferrer(ctx context.Context, referrerID uint64, page entity.Page) ([]*entity.Referral, int64, error)
}
