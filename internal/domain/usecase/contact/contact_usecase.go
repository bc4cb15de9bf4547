package contact

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
)

// MaxResponseLength bounds an admin response
const MaxResponseLength = 5000

// ContactUseCase handles contact form intake and support handling
type ContactUseCase struct {
	uow           persistence.UnitOfWork
	notifications usecase.NotificationUseCase
	timeProvider  coreport.TimeProvider
	logger        coreport.Logger
}

// NewContactUseCase creates a new ContactUseCase
func NewContactUseCase(
	uow persistence.UnitOfWork,
	notifications usecase.NotificationUseCase,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *ContactUseCase {
	return &ContactUseCase{
		uow:           uow,
		notifications: notifications,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// Submit stores a new message with status new
func (u *ContactUseCase) Submit(ctx context.Context, input usecase.ContactInput) (*entity.ContactMessage, error) {
	message, err := entity.NewContactMessage(input.Name, input.Email, input.Subject, input.Message, input.UserID, u.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := u.uow.GetContactRepository(ctx).Create(ctx, message); err != nil {
		return nil, err
	}

	u.logger.Info("Contact message received", map[string]any{
		"message_id": message.ID,
		"signed_in":  message.UserID != nil,
		"request_id": coreport.RequestIDFromContext(ctx),
	})
	return message, nil
}

// Get returns a message by id
func (u *ContactUseCase) Get(ctx context.Context, id uint64) (*entity.ContactMessage, error) {
	return u.uow.GetContactRepository(ctx).GetByID(ctx, id)
}

// List returns a filtered page of messages
func (u *ContactUseCase) List(ctx context.Context, filter persistence.ContactFilter) ([]*entity.ContactMessage, int64, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, errs.NewValidationError("status", "must be one of new, in_progress, resolved, closed")
	}
	return u.uow.GetContactRepository(ctx).List(ctx, filter)
}

// Update changes the status and/or records a response. A response is emailed
// to the sender after the change is saved; a failed email does not undo it.
func (u *ContactUseCase) Update(ctx context.Context, id uint64, update usecase.ContactUpdate) (*entity.ContactMessage, error) {
	if update.Status == nil && update.Response == nil {
		return nil, errs.NewValidationError("", "status or response is required")
	}
	if update.Status != nil && !update.Status.IsValid() {
		return nil, errs.NewValidationError("status", "must be one of new, in_progress, resolved, closed")
	}
	if update.Response != nil && len(*update.Response) > MaxResponseLength {
		return nil, errs.NewValidationError("response", "is too long")
	}

	var (
		message   *entity.ContactMessage
		responded bool
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		contacts := u.uow.GetContactRepository(txCtx)
		m, err := contacts.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if update.Status != nil {
			m.Status = *update.Status
			m.UpdatedAt = u.timeProvider.Now()
		}
		responded = false
		if update.Response != nil {
			m.Respond(*update.Response, u.timeProvider)
			responded = m.Response != ""
		}

		if err := contacts.Update(txCtx, m); err != nil {
			return err
		}
		message = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("Contact message updated", map[string]any{
		"message_id": message.ID,
		"status":     message.Status,
		"responded":  responded,
		"request_id": coreport.RequestIDFromContext(ctx),
	})

	if responded {
		u.sendResponse(ctx, message)
	}
	return message, nil
}

func (u *ContactUseCase) sendResponse(ctx context.Context, message *entity.ContactMessage) {
	err := u.notifications.SendEmail(ctx, notification.Email{
		To:      message.Email,
		ToName:  message.Name,
		Subject: "Re: " + message.Subject,
		Body: fmt.Sprintf("Hi %s,\n\n%s\n\n-- DailyEarn support\n\nYour message:\n%s",
			message.Name, message.Response, message.Body),
	})
	if err != nil {
		u.logger.Warn("Contact response email not sent", map[string]any{
			"message_id": message.ID,
			"error":      err.Error(),
		})
	}
}
