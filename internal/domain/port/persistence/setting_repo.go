package persistence

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// SettingRepository stores raw setting values
type SettingRepository interface {
	// GetAll returns every stored setting keyed by name
	GetAll(ctx context.Context) (map[string]*entity.Setting, error)

	// Upsert inserts or replaces a setting value
	Upsert(ctx context.Context, setting *entity.Setting) error
}
