package admin

import (
	"context"
	"strings"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/security"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
)

// RecentEntryCount is how many ledger entries GetUser returns
const RecentEntryCount = 10

// AdminUseCase handles admin sign-in and user management
type AdminUseCase struct {
	uow          persistence.UnitOfWork
	hasher       security.PasswordHasher
	tokens       security.TokenIssuer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewAdminUseCase creates a new AdminUseCase
func NewAdminUseCase(
	uow persistence.UnitOfWork,
	hasher security.PasswordHasher,
	tokens security.TokenIssuer,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *AdminUseCase {
	return &AdminUseCase{
		uow:          uow,
		hasher:       hasher,
		tokens:       tokens,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Login checks an admin's credentials and issues a session carrying the account's role
func (u *AdminUseCase) Login(ctx context.Context, username, password string) (*usecase.AuthResult, error) {
	admins := u.uow.GetAdminRepository(ctx)
	account, err := admins.GetByUsername(ctx, username)
	if errs.IsNotFoundError(err) {
		u.logger.Warn("Admin login for unknown username", map[string]any{
			"request_id": coreport.RequestIDFromContext(ctx),
		})
		return nil, errs.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !account.Active {
		u.logger.Warn("Admin login to disabled account", map[string]any{
			"admin_id": account.ID,
		})
		return nil, errs.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(account.PasswordHash, password); err != nil {
		u.logger.Warn("Admin login with wrong password", map[string]any{
			"admin_id":   account.ID,
			"request_id": coreport.RequestIDFromContext(ctx),
		})
		return nil, errs.ErrInvalidCredentials
	}

	now := u.timeProvider.Now()
	if err := admins.UpdateLastLogin(ctx, account.ID, now); err != nil {
		return nil, err
	}
	account.LastLoginAt = &now

	token, session, err := u.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return nil, err
	}

	u.logger.Info("Admin signed in", map[string]any{
		"admin_id": account.ID,
		"role":     account.Role,
	})
	return &usecase.AuthResult{Token: token, Session: session, Admin: account}, nil
}

// EnsureAdmin creates an active staff account unless the username already exists
func (u *AdminUseCase) EnsureAdmin(ctx context.Context, username, passwordHash string, role entity.Role) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return errs.NewValidationError("username", "is required")
	}
	if passwordHash == "" {
		return errs.NewValidationError("password", "is required")
	}
	if !role.IsStaff() {
		return errs.NewValidationError("role", "must be admin or support")
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		admins := u.uow.GetAdminRepository(txCtx)
		_, err := admins.GetByUsername(txCtx, username)
		if err == nil {
			u.logger.Debug("Admin account already exists", map[string]any{
				"username": username,
			})
			return nil
		}
		if !errs.IsNotFoundError(err) {
			return err
		}

		now := u.timeProvider.Now()
		return admins.Create(txCtx, &entity.AdminAccount{
			Username:     username,
			PasswordHash: passwordHash,
			Role:         role,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
}

// ListUsers returns a page of users matching the filter's search text
func (u *AdminUseCase) ListUsers(ctx context.Context, filter persistence.UserFilter) ([]*entity.User, int64, error) {
	return u.uow.GetUserRepository(ctx).List(ctx, filter)
}

// GetUser returns a user with their most recent ledger entries
func (u *AdminUseCase) GetUser(ctx context.Context, id uint64) (*usecase.UserDetail, error) {
	user, err := u.uow.GetUserRepository(ctx).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, _, err := u.uow.GetLedgerRepository(ctx).List(ctx, persistence.LedgerFilter{
		UserID: id,
		Page:   entity.Page{Limit: RecentEntryCount},
	})
	if err != nil {
		return nil, err
	}
	return &usecase.UserDetail{User: user, RecentEntries: entries}, nil
}

// UpdateUser applies the non-nil fields of update. The balance is never edited here.
func (u *AdminUseCase) UpdateUser(ctx context.Context, id uint64, update usecase.UserUpdate) (*entity.User, error) {
	if update.Name == nil && update.EmailVerified == nil {
		return nil, errs.NewValidationError("", "name or emailVerified is required")
	}

	var updated *entity.User
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		users := u.uow.GetUserRepository(txCtx)
		user, err := users.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if update.Name != nil {
			name := strings.TrimSpace(*update.Name)
			if err := entity.ValidateName(name); err != nil {
				return err
			}
			user.Name = name
		}
		if update.EmailVerified != nil {
			user.EmailVerified = *update.EmailVerified
			if user.EmailVerified {
				user.VerificationToken = nil
			}
		}

		if err := users.Update(txCtx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("User updated by admin", map[string]any{
		"user_id":    id,
		"request_id": coreport.RequestIDFromContext(ctx),
	})
	return updated, nil
}

// DeleteUser removes the account; ledger, referral and payout rows are kept for audit
func (u *AdminUseCase) DeleteUser(ctx context.Context, id uint64) error {
	if err := u.uow.GetUserRepository(ctx).Delete(ctx, id); err != nil {
		return err
	}
	u.logger.Warn("User deleted by admin", map[string]any{
		"user_id":    id,
		"request_id": coreport.RequestIDFromContext(ctx),
	})
	return nil
}

// Dashboard summarizes users, balances, tasks, payouts and support load
func (u *AdminUseCase) Dashboard(ctx context.Context) (*entity.DashboardStats, error) {
	users, balance, err := u.uow.GetUserRepository(ctx).Totals(ctx)
	if err != nil {
		return nil, err
	}
	activeTasks, err := u.uow.GetTaskRepository(ctx).CountByStatus(ctx, entity.TaskStatusActive)
	if err != nil {
		return nil, err
	}
	pending, pendingAmount, err := u.uow.GetPayoutRepository(ctx).PendingTotals(ctx)
	if err != nil {
		return nil, err
	}
	newMessages, err := u.uow.GetContactRepository(ctx).CountByStatus(ctx, entity.ContactStatusNew)
	if err != nil {
		return nil, err
	}

	return &entity.DashboardStats{
		Users:               users,
		TotalBalance:        balance,
		ActiveTasks:         activeTasks,
		PendingPayouts:      pending,
		PendingPayoutAmount: pendingAmount,
		NewContactMessages:  newMessages,
	}, nil
}
