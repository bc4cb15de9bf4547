package repository

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PayoutRepository implements PayoutRepository interface using GORM
type PayoutRepository struct {
	db     *gorm.DB
	logger coreport.Logger
	errors dbErrorHandler
}

// NewPayoutRepository creates a new PayoutRepository instance
func NewPayoutRepository(db *gorm.DB, logger coreport.Logger) *PayoutRepository {
	return &PayoutRepository{
		db:     db,
		logger: logger,
		errors: dbErrorHandler{logger: logger, classifier: NewErrorClassifier()},
	}
}

func (r *PayoutRepository) handleDatabaseError(operation string, err error, payoutID uint64) error {
	return r.errors.handle(operation, err, errs.ErrPayoutNotFound, errs.ErrDuplicateEntry, map[string]any{
		"payout_id": payoutID,
	})
}

func payoutToEntity(m *model.Payout) *entity.Payout {
	return &entity.Payout{
		ID:          m.ID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Destination: m.Destination.Data(),
		Status:      entity.PayoutStatus(m.Status),
		Reference:   m.Reference,
		Note:        m.Note,
		RequestedAt: m.RequestedAt,
		ProcessedAt: m.ProcessedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Create saves a new payout and sets its ID
func (r *PayoutRepository) Create(ctx context.Context, payout *entity.Payout) error {
	m := model.Payout{
		UserID:      payout.UserID,
		Amount:      payout.Amount,
		Destination: datatypes.NewJSONType(payout.Destination),
		Status:      string(payout.Status),
		Reference:   payout.Reference,
		Note:        payout.Note,
		RequestedAt: payout.RequestedAt,
		ProcessedAt: payout.ProcessedAt,
		UpdatedAt:   payout.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating payout", err, 0)
	}
	payout.ID = m.ID

	r.logger.Info("Payout created", map[string]any{
		"payout_id": payout.ID,
		"user_id":   payout.UserID,
		"amount":    entity.FormatAmount(payout.Amount),
		"reference": payout.Reference,
	})
	return nil
}

// GetByID retrieves a payout
func (r *PayoutRepository) GetByID(ctx context.Context, id uint64) (*entity.Payout, error) {
	var m model.Payout
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting payout", err, id)
	}
	return payoutToEntity(&m), nil
}

// GetByIDForUpdate retrieves a payout and locks its row for the rest of the transaction
func (r *PayoutRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*entity.Payout, error) {
	var m model.Payout
	if err := forUpdate(r.db.WithContext(ctx)).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("locking payout", err, id)
	}
	return payoutToEntity(&m), nil
}

// UpdateStatus saves the status, note and processing time
func (r *PayoutRepository) UpdateStatus(ctx context.Context, payout *entity.Payout) error {
	result := r.db.WithContext(ctx).Model(&model.Payout{}).
		Where("id = ?", payout.ID).
		Updates(map[string]any{
			"status":       string(payout.Status),
			"note":         payout.Note,
			"processed_at": payout.ProcessedAt,
			"updated_at":   payout.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating payout status", result.Error, payout.ID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrPayoutNotFound
	}

	r.logger.Info("Payout status updated", map[string]any{
		"payout_id": payout.ID,
		"status":    payout.Status,
	})
	return nil
}

// List returns a page of payouts, newest first, and the total match count
func (r *PayoutRepository) List(ctx context.Context, filter persistence.PayoutFilter) ([]*entity.Payout, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Payout{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDatabaseError("counting payouts", err, 0)
	}

	var models []model.Payout
	if err := paginate(query, filter.Page).Order("requested_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, 0, r.handleDatabaseError("listing payouts", err, 0)
	}

	payouts := make([]*entity.Payout, 0, len(models))
	for i := range models {
		payouts = append(payouts, payoutToEntity(&models[i]))
	}
	return payouts, total, nil
}

// PendingTotals returns the number and summed amount of pending payouts
func (r *PayoutRepository) PendingTotals(ctx context.Context) (int64, int64, error) {
	var row struct {
		Count  int64
		Amount int64
	}
	err := r.db.WithContext(ctx).Model(&model.Payout{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("status = ?", string(entity.PayoutStatusPending)).
		Scan(&row).Error
	if err != nil {
		return 0, 0, r.handleDatabaseError("summing pending payouts", err, 0)
	}
	return row.Count, row.Amount, nil
}
