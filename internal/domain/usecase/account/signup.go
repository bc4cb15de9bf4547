package account

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/google/uuid"
)

// referralAlphabet leaves out characters that read alike (0/O, 1/I)
const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// maxCodeAttempts bounds referral code collision retries
const maxCodeAttempts = 10

// Signup creates the account and, when the referral code belongs to someone,
// records the referral and credits the referrer in the same transaction.
// An unknown code is logged and ignored.
func (u *AccountUseCase) Signup(ctx context.Context, input usecase.SignupInput) (*usecase.SignupResult, error) {
	if err := entity.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	referralCode := strings.ToUpper(strings.TrimSpace(input.ReferralCode))

	var (
		user    *entity.User
		applied bool
	)
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		applied = false
		users := u.uow.GetUserRepository(txCtx)

		code, err := u.newReferralCode(txCtx)
		if err != nil {
			return err
		}
		user, err = entity.NewUser(input.Email, hash, input.Name, code, u.timeProvider)
		if err != nil {
			return err
		}
		token := uuid.NewString()
		user.VerificationToken = &token

		var referrer *entity.User
		if referralCode != "" {
			referrer, err = users.GetByReferralCode(txCtx, referralCode)
			switch {
			case errs.IsNotFoundError(err):
				u.logger.Warn("Signup with unknown referral code", map[string]any{
					"referral_code": referralCode,
					"request_id":    coreport.RequestIDFromContext(ctx),
				})
				referrer = nil
			case err != nil:
				return err
			default:
				user.ReferredBy = &referrer.ID
			}
		}

		if err := users.Create(txCtx, user); err != nil {
			return err
		}

		if referrer != nil {
			if err := u.creditReferrer(txCtx, referrer, user); err != nil {
				return err
			}
			applied = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("User signed up", map[string]any{
		"user_id":          user.ID,
		"referral_applied": applied,
		"request_id":       coreport.RequestIDFromContext(ctx),
	})

	u.sendVerification(ctx, user)

	auth, err := u.issue(user)
	if err != nil {
		return nil, err
	}
	return &usecase.SignupResult{AuthResult: *auth, ReferralApplied: applied}, nil
}

// creditReferrer records the referral and pays the configured reward to the referrer
func (u *AccountUseCase) creditReferrer(txCtx context.Context, referrer, referred *entity.User) error {
	settings, err := u.settings.GetSettings(txCtx)
	if err != nil {
		return err
	}

	referral := &entity.Referral{
		ReferrerID: referrer.ID,
		ReferredID: referred.ID,
		Reward:     settings.ReferralReward,
		CreatedAt:  u.timeProvider.Now(),
	}
	if err := u.uow.GetReferralRepository(txCtx).Create(txCtx, referral); err != nil {
		return err
	}

	// A zero reward still records who referred whom
	if settings.ReferralReward == 0 {
		return nil
	}

	if _, err := u.uow.GetUserRepository(txCtx).IncrementBalance(txCtx, referrer.ID, settings.ReferralReward); err != nil {
		return err
	}
	return u.uow.GetLedgerRepository(txCtx).Append(txCtx,
		entity.NewReferralEntry(referrer.ID, settings.ReferralReward, referred.Email, u.timeProvider))
}

// newReferralCode draws random codes until one is unused. A signup that claims
// the same code before Create commits makes Create fail with ErrConcurrentUpdate,
// and the whole unit of work runs again.
func (u *AccountUseCase) newReferralCode(ctx context.Context) (string, error) {
	users := u.uow.GetUserRepository(ctx)
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := u.drawCode()
		if err != nil {
			return "", err
		}
		exists, err := users.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		u.logger.Debug("Referral code collision", map[string]any{
			"attempt": attempt + 1,
		})
	}
	return "", fmt.Errorf("%w: no free referral code after %d attempts", errs.ErrInternalServer, maxCodeAttempts)
}

func randomCode(length int) (string, error) {
	limit := big.NewInt(int64(len(referralAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("%w: reading random source: %s", errs.ErrInternalServer, err.Error())
		}
		code[i] = referralAlphabet[n.Int64()]
	}
	return string(code), nil
}

// sendVerification emails the verification link; failures are only logged
func (u *AccountUseCase) sendVerification(ctx context.Context, user *entity.User) {
	if user.VerificationToken == nil {
		return
	}

	link := u.verifyURL + "?token=" + url.QueryEscape(*user.VerificationToken)
	err := u.notifications.SendEmail(ctx, notification.Email{
		To:      user.Email,
		ToName:  user.Name,
		Subject: "Verify your DailyEarn email address",
		Body: fmt.Sprintf("Hi %s,\n\nWelcome to DailyEarn. Confirm your email address by opening:\n%s\n\nYour referral code is %s.",
			user.Name, link, user.ReferralCode),
	})
	if err != nil {
		u.logger.Warn("Verification email not sent", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}
}
