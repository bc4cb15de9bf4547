package account

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

// AccountUseCase handles signup, login and the signed-in user's own data
type AccountUseCase struct {
	uow           persistence.UnitOfWork
	settings      usecase.SettingsUseCase
	notifications usecase.NotificationUseCase
	hasher        security.PasswordHasher
	tokens        security.TokenIssuer
	verifyURL     string
	timeProvider  coreport.TimeProvider
	logger        coreport.Logger

	drawCode func() (string, error)
}

// NewAccountUseCase creates a new AccountUseCase. verifyURL is the page that
// receives the email verification token as its "token" query parameter.
func NewAccountUseCase(
	uow persistence.UnitOfWork,
	settings usecase.SettingsUseCase,
	notifications usecase.NotificationUseCase,
	hasher security.PasswordHasher,
	tokens security.TokenIssuer,
	verifyURL string,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		uow:           uow,
		settings:      settings,
		notifications: notifications,
		hasher:        hasher,
		tokens:        tokens,
		verifyURL:     verifyURL,
		timeProvider:  timeProvider,
		logger:        logger,
		drawCode:      func() (string, error) { return randomCode(entity.ReferralCodeLength) },
	}
}

// Login checks the password and issues a user session
func (u *AccountUseCase) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	user, err := u.uow.GetUserRepository(ctx).GetByEmail(ctx, email)
	if errs.IsNotFoundError(err) {
		u.logger.Info("Login for unknown email", map[string]any{
			"request_id": coreport.RequestIDFromContext(ctx),
		})
		return nil, errs.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := u.hasher.Compare(user.PasswordHash, password); err != nil {
		u.logger.Info("Login with wrong password", map[string]any{
			"user_id":    user.ID,
			"request_id": coreport.RequestIDFromContext(ctx),
		})
		return nil, errs.ErrInvalidCredentials
	}

	return u.issue(user)
}

// VerifyEmail marks the holder of token as verified; a token works once
func (u *AccountUseCase) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errs.NewValidationError("token", "is required")
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		users := u.uow.GetUserRepository(txCtx)
		user, err := users.GetByVerificationToken(txCtx, token)
		if errs.IsNotFoundError(err) {
			return errs.NewValidationError("token", "is invalid or already used")
		}
		if err != nil {
			return err
		}

		user.EmailVerified = true
		user.VerificationToken = nil
		if err := users.Update(txCtx, user); err != nil {
			return err
		}

		u.logger.Info("Email verified", map[string]any{
			"user_id": user.ID,
		})
		return nil
	})
}

// Profile returns the stored summary of userID
func (u *AccountUseCase) Profile(ctx context.Context, userID uint64) (*entity.Profile, error) {
	user, err := u.uow.GetUserRepository(ctx).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := entity.UserToProfile(user)
	return &profile, nil
}

// ListLedger returns a page of the user's own ledger, optionally of one entry type
func (u *AccountUseCase) ListLedger(ctx context.Context, userID uint64, entryType entity.EntryType, page entity.Page) ([]*entity.LedgerEntry, int64, error) {
	if entryType != "" && !entryType.IsValid() {
		return nil, 0, errs.NewValidationError("type", "must be one of task, referral, payout, payout_refund")
	}
	return u.uow.GetLedgerRepository(ctx).List(ctx, persistence.LedgerFilter{
		UserID: userID,
		Type:   entryType,
		Page:   page,
	})
}

// ListReferrals returns the signups credited to the user's referral code
func (u *AccountUseCase) ListReferrals(ctx context.Context, userID uint64, page entity.Page) ([]*entity.Referral, int64, error) {
	return u.uow.GetReferralRepository(ctx).ListByReferrer(ctx, userID, page)
}

func (u *AccountUseCase) issue(user *entity.User) (*usecase.AuthResult, error) {
	token, session, err := u.tokens.Issue(user.ID, entity.RoleUser)
	if err != nil {
		u.logger.Error("Failed to issue session token", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return nil, err
	}

	profile := entity.UserToProfile(user)
	return &usecase.AuthResult{
		Token:   token,
		Session: session,
		Profile: &profile,
	}, nil
}
