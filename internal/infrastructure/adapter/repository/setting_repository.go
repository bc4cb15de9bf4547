package repository

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository implements SettingRepository interface using GORM
type SettingRepository struct {
	db     *gorm.DB
	logger coreport.Logger
	errors dbErrorHandler
}

// NewSettingRepository creates a new SettingRepository instance
func NewSettingRepository(db *gorm.DB, logger coreport.Logger) *SettingRepository {
	return &SettingRepository{
		db:     db,
		logger: logger,
		errors: dbErrorHandler{logger: logger, classifier: NewErrorClassifier()},
	}
}

// GetAll returns every stored setting keyed by name
func (r *SettingRepository) GetAll(ctx context.Context) (map[string]*entity.Setting, error) {
	var models []model.Setting
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, r.errors.handle("loading settings", err, errs.ErrNotFound, errs.ErrDuplicateEntry, nil)
	}

	settings := make(map[string]*entity.Setting, len(models))
	for _, m := range models {
		settings[m.Key] = &entity.Setting{
			Key:       m.Key,
			Value:     m.Value,
			UpdatedAt: m.UpdatedAt,
		}
	}
	return settings, nil
}

// Upsert inserts or replaces a setting value
func (r *SettingRepository) Upsert(ctx context.Context, setting *entity.Setting) error {
	m := model.Setting{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedAt: setting.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return r.errors.handle("saving setting", err, errs.ErrNotFound, errs.ErrDuplicateEntry, map[string]any{
			"key": setting.Key,
		})
	}

	r.logger.Info("Setting saved", map[string]any{
		"key":   setting.Key,
		"value": setting.Value,
	})
	return nil
}
