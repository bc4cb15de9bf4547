package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// SettingView is one setting with its effective value
type SettingView struct {
	Definition entity.SettingDefinition
	Value      int64
	Stored     bool
	UpdatedAt  *time.Time
}

// SettingsUseCase reads and writes bounded settings
type SettingsUseCase interface {
	GetSettings(ctx context.Context) (entity.Settings, error)
	ListSettings(ctx context.Context) ([]SettingView, error)

	// UpdateSetting validates value against the key's bounds before saving;
	// a rejected value leaves the stored one untouched
	UpdateSetting(ctx context.Context, key, value string) (*SettingView, error)
}
