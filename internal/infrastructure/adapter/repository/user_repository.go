package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// UserRepository implements UserRepository interface using GORM
type UserRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errors       dbErrorHandler
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
		errors:       dbErrorHandler{logger: logger, classifier: NewErrorClassifier()},
	}
}

// modelToEntity converts a user model to an entity
func (r *UserRepository) modelToEntity(userModel *model.User) *entity.User {
	user := &entity.User{
		ID:                userModel.ID,
		Email:             userModel.Email,
		PasswordHash:      userModel.PasswordHash,
		Name:              userModel.Name,
		ReferralCode:      userModel.ReferralCode,
		ReferredBy:        userModel.ReferredBy,
		EmailVerified:     userModel.EmailVerified,
		VerificationToken: userModel.VerificationToken,
		CreatedAt:         userModel.CreatedAt,
		UpdatedAt:         userModel.UpdatedAt,
	}
	user.SetBalance(userModel.Balance)
	return user
}

func (r *UserRepository) handleDatabaseError(operation string, err error, userID uint64) error {
	return r.errors.handle(operation, err, errs.ErrUserNotFound, errs.ErrDuplicateUser, map[string]any{
		"user_id": userID,
	})
}

// Create creates a new user and sets its ID
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.logger.Debug("Creating new user", map[string]any{
		"email": user.Email,
	})

	userModel := model.User{
		Email:             user.Email,
		PasswordHash:      user.PasswordHash,
		Name:              user.Name,
		ReferralCode:      user.ReferralCode,
		ReferredBy:        user.ReferredBy,
		Balance:           user.Balance(),
		EmailVerified:     user.EmailVerified,
		VerificationToken: user.VerificationToken,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&userModel).Error; err != nil {
		// Another signup claimed the code after it was drawn; the unit of work retries with a new one
		if r.errors.classifier.IsUniqueViolationOn(err, "referral_code") {
			r.logger.Warn("Referral code taken by a concurrent signup", map[string]any{
				"error": err.Error(),
			})
			return fmt.Errorf("%w: referral code already assigned", errs.ErrConcurrentUpdate)
		}
		return r.handleDatabaseError("creating user", err, 0)
	}
	user.ID = userModel.ID

	r.logger.Info("User created successfully", map[string]any{
		"user_id": user.ID,
	})
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).First(&userModel, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting user", err, id)
	}
	return r.modelToEntity(&userModel), nil
}

// GetByIDForUpdate retrieves a user and locks the row for the rest of the transaction
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*entity.User, error) {
	r.logger.Debug("Locking user row", map[string]any{
		"user_id": id,
	})

	var userModel model.User
	if err := forUpdate(r.db.WithContext(ctx)).First(&userModel, id).Error; err != nil {
		return nil, r.handleDatabaseError("locking user", err, id)
	}
	return r.modelToEntity(&userModel), nil
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email = ?", entity.NormalizeEmail(email), "getting user by email")
}

// GetByReferralCode retrieves the owner of a referral code
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	return r.getBy(ctx, "referral_code = ?", strings.ToUpper(strings.TrimSpace(code)), "getting user by referral code")
}

// GetByVerificationToken retrieves the user holding an email verification token
func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return r.getBy(ctx, "verification_token = ?", token, "getting user by verification token")
}

func (r *UserRepository) getBy(ctx context.Context, query string, arg any, operation string) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&userModel).Error; err != nil {
		return nil, r.handleDatabaseError(operation, err, 0)
	}
	return r.modelToEntity(&userModel), nil
}

// ReferralCodeExists reports whether a referral code is already assigned
func (r *UserRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("referral_code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, r.handleDatabaseError("checking referral code", err, 0)
	}
	return count > 0, nil
}

// Update saves profile fields; the balance column is not touched
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	r.logger.Debug("Updating user", map[string]any{
		"user_id": user.ID,
	})

	user.UpdatedAt = r.timeProvider.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"email":              user.Email,
			"password_hash":      user.PasswordHash,
			"name":               user.Name,
			"email_verified":     user.EmailVerified,
			"verification_token": user.VerificationToken,
			"updated_at":         user.UpdatedAt,
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating user", result.Error, user.ID)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("User not found during update", map[string]any{
			"user_id": user.ID,
		})
		return errs.ErrUserNotFound
	}

	r.logger.Info("User updated successfully", map[string]any{
		"user_id": user.ID,
	})
	return nil
}

// IncrementBalance atomically adds delta to the balance and returns the new balance
func (r *UserRepository) IncrementBalance(ctx context.Context, id uint64, delta int64) (int64, error) {
	if delta <= 0 {
		return 0, errs.NewValidationError("amount", "must be greater than zero")
	}

	r.logger.Debug("Crediting balance", map[string]any{
		"user_id": id,
		"amount":  entity.FormatAmount(delta),
	})

	db := r.db.WithContext(ctx)
	result := db.Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		return 0, r.handleDatabaseError("crediting balance", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return 0, errs.ErrUserNotFound
	}

	balance, err := r.currentBalance(db, id)
	if err != nil {
		return 0, err
	}

	r.logger.Info("Balance credited", map[string]any{
		"user_id":     id,
		"amount":      entity.FormatAmount(delta),
		"new_balance": entity.FormatAmount(balance),
	})
	return balance, nil
}

// DebitBalance atomically subtracts amount when the balance covers it and returns the new balance
func (r *UserRepository) DebitBalance(ctx context.Context, id uint64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, errs.NewValidationError("amount", "must be greater than zero")
	}

	db := r.db.WithContext(ctx)
	result := db.Model(&model.User{}).
		Where("id = ? AND balance >= ?", id, amount).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": r.timeProvider.Now(),
		})
	if result.Error != nil {
		return 0, r.handleDatabaseError("debiting balance", result.Error, id)
	}

	if result.RowsAffected == 0 {
		// Either the user is missing or the balance is short
		balance, err := r.currentBalance(db, id)
		if err != nil {
			return 0, err
		}
		r.logger.Warn("Insufficient balance for debit", map[string]any{
			"user_id":         id,
			"amount":          entity.FormatAmount(amount),
			"current_balance": entity.FormatAmount(balance),
		})
		return 0, errs.NewInsufficientBalanceError(id, entity.FormatAmount(amount), entity.FormatAmount(balance))
	}

	balance, err := r.currentBalance(db, id)
	if err != nil {
		return 0, err
	}

	r.logger.Info("Balance debited", map[string]any{
		"user_id":     id,
		"amount":      entity.FormatAmount(amount),
		"new_balance": entity.FormatAmount(balance),
	})
	return balance, nil
}

func (r *UserRepository) currentBalance(db *gorm.DB, id uint64) (int64, error) {
	var userModel model.User
	if err := db.Select("id", "balance").First(&userModel, id).Error; err != nil {
		return 0, r.handleDatabaseError("reading balance", err, id)
	}
	return userModel.Balance, nil
}

// Delete removes a user permanently
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return r.handleDatabaseError("deleting user", result.Error, id)
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}

	r.logger.Info("User deleted", map[string]any{
		"user_id": id,
	})
	return nil
}

// List returns a page of users, newest first, and the total match count
func (r *UserRepository) List(ctx context.Context, filter persistence.UserFilter) ([]*entity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, r.handleDatabaseError("counting users", err, 0)
	}

	var models []model.User
	if err := paginate(query, filter.Page).Order("id DESC").Find(&models).Error; err != nil {
		return nil, 0, r.handleDatabaseError("listing users", err, 0)
	}

	users := make([]*entity.User, 0, len(models))
	for i := range models {
		users = append(users, r.modelToEntity(&models[i]))
	}
	return users, total, nil
}

// Totals returns the number of users and the sum of their balances
func (r *UserRepository) Totals(ctx context.Context) (int64, int64, error) {
	var row struct {
		Count   int64
		Balance int64
	}
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("COUNT(*) AS count, COALESCE(SUM(balance), 0) AS balance").
		Scan(&row).Error
	if err != nil {
		return 0, 0, r.handleDatabaseError("summing balances", err, 0)
	}
	return row.Count, row.Balance, nil
}
