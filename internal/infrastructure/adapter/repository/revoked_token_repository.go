package repository

import (
	"context"
	"time"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevokedTokenRepository keeps logged-out token ids in the database until they expire
type RevokedTokenRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errors       dbErrorHandler
}

// NewRevokedTokenRepository creates a new RevokedTokenRepository instance
func NewRevokedTokenRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *RevokedTokenRepository {
	return &RevokedTokenRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
		errors:       dbErrorHandler{logger: logger, classifier: NewErrorClassifier()},
	}
}

// Revoke marks tokenID as unusable until expiresAt. Revoking twice is a no-op.
func (r *RevokedTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	record := model.RevokedToken{
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
		CreatedAt: r.timeProvider.Now(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record).Error
	if err != nil {
		return r.errors.handle("revoking token", err, errs.ErrNotFound, errs.ErrDuplicateEntry, map[string]any{
			"token_id": tokenID,
		})
	}

	r.logger.Debug("Token revoked", map[string]any{
		"token_id":   tokenID,
		"expires_at": expiresAt,
	})
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not yet expired
func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RevokedToken{}).
		Where("token_id = ? AND expires_at > ?", tokenID, r.timeProvider.Now()).
		Count(&count).Error
	if err != nil {
		return false, r.errors.handle("checking revoked token", err, errs.ErrNotFound, errs.ErrDuplicateEntry, map[string]any{
			"token_id": tokenID,
		})
	}
	return count > 0, nil
}

// DeleteExpired drops revocations whose token has expired anyway
func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.RevokedToken{})
	if result.Error != nil {
		return 0, r.errors.handle("purging revoked tokens", result.Error, errs.ErrNotFound, errs.ErrDuplicateEntry, nil)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Purged expired revoked tokens", map[string]any{
			"count": result.RowsAffected,
		})
	}
	return result.RowsAffected, nil
}
