package payout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/google/uuid"
)

// MaxIdempotencyKeyLength bounds client supplied idempotency keys
const MaxIdempotencyKeyLength = 64

// PayoutUseCase handles withdrawal requests and their review
type PayoutUseCase struct {
	uow           persistence.UnitOfWork
	settings      usecase.SettingsUseCase
	notifications usecase.NotificationUseCase
	timeProvider  coreport.TimeProvider
	logger        coreport.Logger
}

// NewPayoutUseCase creates a new PayoutUseCase
func NewPayoutUseCase(
	uow persistence.UnitOfWork,
	settings usecase.SettingsUseCase,
	notifications usecase.NotificationUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *PayoutUseCase {
	return &PayoutUseCase{
		uow:           uow,
		settings:      settings,
		notifications: notifications,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// NewReference returns a short unique payout reference such as PO-3F2A9C01B7DE
func NewReference() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "PO-" + strings.ToUpper(hex[:12])
}

// RequestPayout debits the amount and records a pending payout in one transaction.
// The amount must reach the configured minimum withdrawal.
func (u *PayoutUseCase) RequestPayout(ctx context.Context, req usecase.PayoutRequest) (*usecase.PayoutResult, error) {
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if len(req.IdempotencyKey) > MaxIdempotencyKeyLength {
		return nil, errs.NewValidationError("idempotencyKey", "is too long")
	}
	if req.Amount <= 0 {
		return nil, errs.NewValidationError("amount", "must be greater than zero")
	}

	var result *usecase.PayoutResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		res, err := u.requestOnce(txCtx, req)
		result = res
		return err
	})

	// A concurrent request with the same key committed first
	if errors.Is(err, errs.ErrDuplicateEntry) && req.IdempotencyKey != "" {
		err = u.uow.Do(ctx, func(txCtx context.Context) error {
			res, err := u.replay(txCtx, req)
			if err == nil && res == nil {
				return errs.ErrDuplicateEntry
			}
			result = res
			return err
		})
	}
	if err != nil {
		return nil, err
	}

	if !result.Replayed {
		u.logger.Info("Payout requested", map[string]any{
			"user_id":     req.UserID,
			"payout_id":   result.Payout.ID,
			"reference":   result.Payout.Reference,
			"amount":      entity.FormatAmount(result.Payout.Amount),
			"new_balance": entity.FormatAmount(result.NewBalance),
			"request_id":  coreport.RequestIDFromContext(ctx),
		})
	}
	return result, nil
}

func (u *PayoutUseCase) requestOnce(txCtx context.Context, req usecase.PayoutRequest) (*usecase.PayoutResult, error) {
	if req.IdempotencyKey != "" {
		replayed, err := u.replay(txCtx, req)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}

	settings, err := u.settings.GetSettings(txCtx)
	if err != nil {
		return nil, err
	}
	if req.Amount < settings.MinimumWithdrawal {
		return nil, errs.NewValidationError("amount",
			fmt.Sprintf("must be at least %s", entity.FormatAmount(settings.MinimumWithdrawal)))
	}

	payout, err := entity.NewPayout(req.UserID, req.Amount, req.Destination, NewReference(), u.timeProvider)
	if err != nil {
		return nil, err
	}

	users := u.uow.GetUserRepository(txCtx)
	if _, err := users.GetByIDForUpdate(txCtx, req.UserID); err != nil {
		return nil, err
	}
	newBalance, err := users.DebitBalance(txCtx, req.UserID, req.Amount)
	if err != nil {
		return nil, err
	}

	if err := u.uow.GetPayoutRepository(txCtx).Create(txCtx, payout); err != nil {
		return nil, err
	}
	if err := u.uow.GetLedgerRepository(txCtx).Append(txCtx, entity.NewPayoutEntry(payout, req.IdempotencyKey, u.timeProvider)); err != nil {
		return nil, err
	}

	return &usecase.PayoutResult{
		Payout:     payout,
		NewBalance: newBalance,
	}, nil
}

// replay returns the payout recorded under the request's key, or nil when the key is unused
func (u *PayoutUseCase) replay(txCtx context.Context, req usecase.PayoutRequest) (*usecase.PayoutResult, error) {
	entry, err := u.uow.GetLedgerRepository(txCtx).GetByIdempotencyKey(txCtx, req.IdempotencyKey)
	if errs.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if entry.UserID != req.UserID || entry.Type != entity.EntryTypePayout || entry.PayoutID == nil || -entry.Amount != req.Amount {
		u.logger.Warn("Idempotency key reused for a different request", map[string]any{
			"user_id":  req.UserID,
			"entry_id": entry.ID,
		})
		return nil, errs.NewValidationError("idempotencyKey", "was already used for another request")
	}

	payout, err := u.uow.GetPayoutRepository(txCtx).GetByID(txCtx, *entry.PayoutID)
	if err != nil {
		return nil, err
	}
	user, err := u.uow.GetUserRepository(txCtx).GetByID(txCtx, req.UserID)
	if err != nil {
		return nil, err
	}

	return &usecase.PayoutResult{
		Payout:     payout,
		NewBalance: user.Balance(),
		Replayed:   true,
	}, nil
}

// ListUserPayouts returns a page of the user's own payouts, newest first
func (u *PayoutUseCase) ListUserPayouts(ctx context.Context, userID uint64, page entity.Page) ([]*entity.Payout, int64, error) {
	return u.uow.GetPayoutRepository(ctx).List(ctx, persistence.PayoutFilter{UserID: userID, Page: page})
}

// GetPayout returns a payout by id
func (u *PayoutUseCase) GetPayout(ctx context.Context, id uint64) (*entity.Payout, error) {
	return u.uow.GetPayoutRepository(ctx).GetByID(ctx, id)
}

// ListPayouts returns a filtered page of payouts
func (u *PayoutUseCase) ListPayouts(ctx context.Context, filter persistence.PayoutFilter) ([]*entity.Payout, int64, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, errs.NewValidationError("status", "must be one of pending, approved, rejected, completed")
	}
	return u.uow.GetPayoutRepository(ctx).List(ctx, filter)
}

// TransitionPayout moves a payout to target. Rejection credits the held amount
// back with one payout_refund entry in the same transaction as the status change.
func (u *PayoutUseCase) TransitionPayout(ctx context.Context, id uint64, target entity.PayoutStatus, note string) (*entity.Payout, error) {
	if !target.IsValid() {
		return nil, errs.NewValidationError("status", "must be one of pending, approved, rejected, completed")
	}

	var (
		payout   *entity.Payout
		previous entity.PayoutStatus
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		payouts := u.uow.GetPayoutRepository(txCtx)
		p, err := payouts.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		previous = p.Status

		if err := p.TransitionTo(target, note, u.timeProvider); err != nil {
			return err
		}
		if err := payouts.UpdateStatus(txCtx, p); err != nil {
			return err
		}

		if target == entity.PayoutStatusRejected {
			if _, err := u.uow.GetUserRepository(txCtx).IncrementBalance(txCtx, p.UserID, p.Amount); err != nil {
				return err
			}
			if err := u.uow.GetLedgerRepository(txCtx).Append(txCtx, entity.NewPayoutRefundEntry(p, u.timeProvider)); err != nil {
				return err
			}
		}
		payout = p
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrInvalidStatusTransition) {
			u.logger.Warn("Rejected payout status change", map[string]any{
				"payout_id": id,
				"target":    target,
				"error":     err.Error(),
			})
		}
		return nil, err
	}

	u.logger.Info("Payout status changed", map[string]any{
		"payout_id":  payout.ID,
		"user_id":    payout.UserID,
		"from":       previous,
		"to":         payout.Status,
		"refunded":   target == entity.PayoutStatusRejected,
		"request_id": coreport.RequestIDFromContext(ctx),
	})

	u.notifyOwner(ctx, payout)
	return payout, nil
}

// notifyOwner emails the payout owner about a status change; failures are only logged
func (u *PayoutUseCase) notifyOwner(ctx context.Context, payout *entity.Payout) {
	user, err := u.uow.GetUserRepository(ctx).GetByID(ctx, payout.UserID)
	if err != nil {
		u.logger.Warn("Payout owner not found for notification", map[string]any{
			"payout_id": payout.ID,
			"error":     err.Error(),
		})
		return
	}

	body := fmt.Sprintf("Hi %s,\n\nYour payout %s of NGN %s is now %s.",
		user.Name, payout.Reference, entity.FormatAmount(payout.Amount), payout.Status)
	if payout.Status == entity.PayoutStatusRejected {
		body += " The amount has been returned to your balance."
	}
	if payout.Note != "" {
		body += "\n\nNote: " + payout.Note
	}

	err = u.notifications.SendEmail(ctx, notification.Email{
		To:      user.Email,
		ToName:  user.Name,
		Subject: fmt.Sprintf("Payout %s %s", payout.Reference, payout.Status),
		Body:    body,
	})
	if err != nil {
		u.logger.Warn("Payout notification not sent", map[string]any{
			"payout_id": payout.ID,
			"error":     err.Error(),
		})
	}
}
