package migration

import (
	"context"
	"strconv"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seedDefaultSettings stores the default of every known setting that has no row yet
func (m *MigrationManager) seedDefaultSettings(ctx context.Context, db *gorm.DB) error {
	now := m.timeProvider.Now()

	for _, def := range entity.SettingDefinitions() {
		row := model.Setting{
			Key:       string(def.Key),
			Value:     strconv.FormatInt(def.Default, 10),
			UpdatedAt: now,
		}
		result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			m.logger.Info("Default setting stored", map[string]any{
				"key":   row.Key,
				"value": row.Value,
			})
		}
	}
	return nil
}
