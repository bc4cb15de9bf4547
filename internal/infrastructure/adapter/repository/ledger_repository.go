package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// LedgerRepository implements the append-only ledger on the transactions table
type LedgerRepository struct {
	db     *gorm.DB
	logger coreport.Logger
	errors dbErrorHandler
}

// NewLedgerRepository creates a new LedgerRepository instance
func NewLedgerRepository(db *gorm.DB, logger coreport.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:     db,
		logger: logger,
		errors: dbErrorHandler{logger: logger, classifier: NewErrorClassifier()},
	}
}

func (r *LedgerRepository) toModel(entry *entity.LedgerEntry) *model.LedgerEntry {
	return &model.LedgerEntry{
		ID:             entry.ID,
		UserID:         entry.UserID,
		Type:           string(entry.Type),
		Amount:         entry.Amount,
		Description:    entry.Description,
		TaskID:         entry.TaskID,
		PayoutID:       entry.PayoutID,
		IdempotencyKey: entry.IdempotencyKey,
		CreatedAt:      entry.CreatedAt,
	}
}

func (r *LedgerRepository) toEntity(m *model.LedgerEntry) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:             m.ID,
		UserID:         m.UserID,
		Type:           entity.EntryType(m.Type),
		Amount:         m.Amount,
		Description:    m.Description,
		TaskID:         m.TaskID,
		PayoutID:       m.PayoutID,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
	}
}

func (r *LedgerRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	return r.errors.handle(operation, err, errs.ErrNotFound, errs.ErrDuplicateEntry, fields)
}

// Append saves a new entry and sets its ID
func (r *LedgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	if !entry.Type.IsValid() {
		return errs.NewValidationError("type", "unknown ledger entry type")
	}

	fields := map[string]any{
		"user_id": entry.UserID,
		"type":    entry.Type,
		"amount":  entity.FormatAmount(entry.Amount),
	}
	r.logger.Debug("Appending ledger entry", fields)

	m := r.toModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return r.handleDatabaseError("appending ledger entry", err, fields)
	}
	entry.ID = m.ID

	r.logger.Info("Ledger entry appended", map[string]any{
		"entry_id": entry.ID,
		"user_id":  entry.UserID,
		"type":     entry.Type,
		"amount":   entity.FormatAmount(entry.Amount),
	})
	return nil
}

// GetByIdempotencyKey retrieves the entry recorded under key
func (r *LedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.LedgerEntry, error) {
	var m model.LedgerEntry
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&m).Error; err != nil {
		return nil, r.handleDatabaseError("finding entry by idempotency key", err, map[string]any{
			"idempotency_key": key,
		})
	}
	return r.toEntity(&m), nil
}

// LatestTaskEntrySince returns the newest task entry for (userID, taskID) created at or after since
func (r *LedgerRepository) LatestTaskEntrySince(ctx context.Context, userID, taskID uint64, since time.Time) (*entity.LedgerEntry, error) {
	var m model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ? AND type = ? AND created_at >= ?",
			userID, taskID, string(entity.EntryTypeTask), since).
		Order("created_at DESC, id DESC").
		First(&m).Error
	if err != nil {
		return nil, r.handleDatabaseError("finding latest task entry", err, map[string]any{
			"user_id": userID,
			"task_id": taskID,
		})
	}
	return r.toEntity(&m), nil
}

// LatestTaskEntriesSince returns, per task, the newest task entry of userID created at or after since
func (r *LedgerRepository) LatestTaskEntriesSince(ctx context.Context, userID uint64, since time.Time) (map[uint64]*entity.LedgerEntry, error) {
	var models []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND task_id IS NOT NULL AND created_at >= ?",
			userID, string(entity.EntryTypeTask), since).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, r.handleDatabaseError("finding recent task entries", err, map[string]any{
			"user_id": userID,
		})
	}

	latest := make(map[uint64]*entity.LedgerEntry, len(models))
	for i := range models {
		taskID := *models[i].TaskID
		if _, seen := latest[taskID]; !seen {
			latest[taskID] = r.toEntity(&models[i])
		}
	}
	return latest, nil
}

// ExistsForTask reports whether any entry references the task
func (r *LedgerRepository) ExistsForTask(ctx context.Context, taskID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	if err != nil {
		return false, r.handleDatabaseError("checking task entries", err, map[string]any{
			"task_id": taskID,
		})
	}
	return count > 0, nil
}

// List returns a page of entries, newest first, and the total match count
func (r *LedgerRepository) List(ctx context.Context, filter persistence.LedgerFilter) ([]*entity.LedgerEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.LedgerEntry{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDatabaseError("counting ledger entries", err, nil)
	}

	var models []model.LedgerEntry
	if err := paginate(query, filter.Page).Order("created_at DESC, id DESC").Find(&models).Error; err != nil {
		return nil, 0, r.handleDatabaseError("listing ledger entries", err, nil)
	}

	entries := make([]*entity.LedgerEntry, 0, len(models))
	for i := range models {
		entries = append(entries, r.toEntity(&models[i]))
	}
	return entries, total, nil
}
