package repository

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// ReferralRepository implements ReferralRepository interface using GORM
type ReferralRepository struct {
	db     *gorm.DB
	logger coreport.Logger
	errors dbErrorHandler
}

// NewReferralRepository creates a new ReferralRepository instance
func NewReferralRepository(db *gorm.DB, logger coreport.Logger) *ReferralRepository {
	return &ReferralRepository{
		db:     db,
		logger: logger,
		errors: dbErrorHandler{logger: logger, classifier: NewErrorClassifier()},
	}
}

// Create saves a referral and sets its ID
func (r *ReferralRepository) Create(ctx context.Context, referral *entity.Referral) error {
	fields := map[string]any{
		"referrer_id": referral.ReferrerID,
		"referred_id": referral.ReferredID,
	}

	m := model.Referral{
		ReferrerID: referral.ReferrerID,
		ReferredID: referral.ReferredID,
		Reward:     referral.Reward,
		CreatedAt:  referral.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.errors.handle("creating referral", err, errs.ErrNotFound, errs.ErrDuplicateEntry, fields)
	}
	referral.ID = m.ID

	fields["reward"] = entity.FormatAmount(referral.Reward)
	r.logger.Info("Referral recorded", fields)
	return nil
}

// ListByReferrer returns the referrals credited to referrerID, newest first
func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID uint64, page entity.Page) ([]*entity.Referral, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Referral{}).Where("referrer_id = ?", referrerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.errors.handle("counting referrals", err, errs.ErrNotFound, errs.ErrDuplicateEntry, nil)
	}

	var models []model.Referral
	if err := paginate(query, page).Order("id DESC").Find(&models).Error; err != nil {
		return nil, 0, r.errors.handle("listing referrals", err, errs.ErrNotFound, errs.ErrDuplicateEntry, nil)
	}

	referrals := make([]*entity.Referral, 0, len(models))
	for _, m := range models {
		referrals = append(referrals, &entity.Referral{
			ID:         m.ID,
			ReferrerID: m.ReferrerID,
			ReferredID: m.ReferredID,
			Reward:     m.Reward,
			CreatedAt:  m.CreatedAt,
		})
	}
	return referrals, total, nil
}
