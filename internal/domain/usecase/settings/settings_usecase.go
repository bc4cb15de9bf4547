package settings

import (
	"context"
	"strconv"
	"strings"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
)

// SettingsUseCase reads and writes the bounded settings. Every read goes to the database.
type SettingsUseCase struct {
	uow          persistence.UnitOfWork
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewSettingsUseCase creates a new SettingsUseCase
func NewSettingsUseCase(
	uow persistence.UnitOfWork,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *SettingsUseCase {
	return &SettingsUseCase{
		uow:          uow,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetSettings returns the effective settings. Called with a transactional
// context it reads inside that transaction.
func (u *SettingsUseCase) GetSettings(ctx context.Context) (entity.Settings, error) {
	stored, err := u.uow.GetSettingRepository(ctx).GetAll(ctx)
	if err != nil {
		return entity.Settings{}, err
	}

	raw := make(map[string]string, len(stored))
	for key, setting := range stored {
		raw[key] = setting.Value
	}
	return entity.ResolveSettings(raw), nil
}

// ListSettings returns every known setting with its effective value
func (u *SettingsUseCase) ListSettings(ctx context.Context) ([]usecase.SettingView, error) {
	stored, err := u.uow.GetSettingRepository(ctx).GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]usecase.SettingView, 0, len(stored))
	for _, def := range entity.SettingDefinitions() {
		setting, ok := stored[string(def.Key)]
		view := usecase.SettingView{Definition: def, Value: def.Default}
		if ok {
			view.Stored = true
			updatedAt := setting.UpdatedAt
			view.UpdatedAt = &updatedAt
			if _, err := def.Validate(setting.Value); err != nil {
				u.logger.Warn("Stored setting is invalid, using default", map[string]any{
					"key":     def.Key,
					"value":   setting.Value,
					"default": def.Default,
				})
			}
			view.Value = def.Resolve(setting.Value, true)
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateSetting validates value against the key's bounds and saves it
func (u *SettingsUseCase) UpdateSetting(ctx context.Context, key, value string) (*usecase.SettingView, error) {
	def, ok := entity.LookupSetting(strings.TrimSpace(key))
	if !ok {
		return nil, errs.NewValidationError("key", "unknown setting "+key)
	}

	parsed, err := def.Validate(value)
	if err != nil {
		u.logger.Warn("Rejected setting update", map[string]any{
			"key":   def.Key,
			"value": value,
			"error": err.Error(),
		})
		return nil, err
	}

	setting := &entity.Setting{
		Key:       string(def.Key),
		Value:     strconv.FormatInt(parsed, 10),
		UpdatedAt: u.timeProvider.Now(),
	}
	if err := u.uow.GetSettingRepository(ctx).Upsert(ctx, setting); err != nil {
		return nil, err
	}

	u.logger.Info("Setting updated", map[string]any{
		"key":   def.Key,
		"value": parsed,
	})

	updatedAt := setting.UpdatedAt
	return &usecase.SettingView{
		Definition: def,
		Value:      parsed,
		Stored:     true,
		UpdatedAt:  &updatedAt,
	}, nil
}
