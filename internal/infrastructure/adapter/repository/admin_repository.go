package repository

import (
	"context"
	"strings"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// AdminRepository implements AdminRepository interface using GORM
type AdminRepository struct {
	db     *gorm.DB
	logger coreport.Logger
	errors dbErrorHandler
}

// NewAdminRepository creates a new AdminRepository instance
func NewAdminRepository(db *gorm.DB, logger coreport.Logger) *AdminRepository {
	return &AdminRepository{
		db:     db,
		logger: logger,
		errors: dbErrorHandler{logger: logger, classifier: NewErrorClassifier()},
	}
}

func (r *AdminRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	return r.errors.handle(operation, err, errs.ErrNotFound, errs.ErrDuplicateUser, fields)
}

func adminToEntity(m *model.Admin) *entity.AdminAccount {
	return &entity.AdminAccount{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         entity.Role(m.Role),
		Active:       m.Active,
		LastLoginAt:  m.LastLoginAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Create saves a new admin account and sets its ID
func (r *AdminRepository) Create(ctx context.Context, admin *entity.AdminAccount) error {
	m := model.Admin{
		Username:     strings.ToLower(strings.TrimSpace(admin.Username)),
		PasswordHash: admin.PasswordHash,
		Role:         string(admin.Role),
		Active:       admin.Active,
		CreatedAt:    admin.CreatedAt,
		UpdatedAt:    admin.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating admin", err, map[string]any{
			"username": m.Username,
		})
	}
	admin.ID = m.ID
	admin.Username = m.Username

	r.logger.Info("Admin account created", map[string]any{
		"admin_id": admin.ID,
		"role":     admin.Role,
	})
	return nil
}

// GetByUsername retrieves an admin by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*entity.AdminAccount, error) {
	var m model.Admin
	username = strings.ToLower(strings.TrimSpace(username))
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, r.handleDatabaseError("getting admin by username", err, map[string]any{
			"username": username,
		})
	}
	return adminToEntity(&m), nil
}

// GetByID retrieves an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id uint64) (*entity.AdminAccount, error) {
	var m model.Admin
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting admin", err, map[string]any{
			"admin_id": id,
		})
	}
	return adminToEntity(&m), nil
}

// UpdateLastLogin stamps a successful login
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Admin{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_login_at": at,
			"updated_at":    at,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating admin login time", result.Error, map[string]any{
			"admin_id": id,
		})
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
