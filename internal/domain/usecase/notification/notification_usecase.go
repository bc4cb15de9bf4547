package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
)

// Message size limits
const (
	MaxSubjectLength = 200
	MaxBodyLength    = 20000
)

// NotificationUseCase validates and dispatches transactional email
type NotificationUseCase struct {
	mailer notification.Mailer
	logger coreport.Logger
}

// NewNotificationUseCase creates a new NotificationUseCase
func NewNotificationUseCase(mailer notification.Mailer, logger coreport.Logger) *NotificationUseCase {
	return &NotificationUseCase{
		mailer: mailer,
		logger: logger,
	}
}

// SendEmail checks the recipient, subject and body, then hands the message to the mailer
func (u *NotificationUseCase) SendEmail(ctx context.Context, email notification.Email) error {
	email.To = entity.NormalizeEmail(email.To)
	email.ToName = strings.TrimSpace(email.ToName)
	email.Subject = strings.TrimSpace(email.Subject)
	email.Body = strings.TrimSpace(email.Body)

	if err := entity.ValidateEmail(email.To); err != nil {
		return errs.NewValidationError("to", "is not a valid address")
	}
	if email.Subject == "" {
		return errs.NewValidationError("subject", "is required")
	}
	if len(email.Subject) > MaxSubjectLength {
		return errs.NewValidationError("subject", "is too long")
	}
	if email.Body == "" {
		return errs.NewValidationError("body", "is required")
	}
	if len(email.Body) > MaxBodyLength {
		return errs.NewValidationError("body", "is too long")
	}

	if err := u.mailer.Send(ctx, email); err != nil {
		u.logger.Error("Failed to send email", map[string]any{
			"to":         email.To,
			"subject":    email.Subject,
			"error":      err.Error(),
			"request_id": coreport.RequestIDFromContext(ctx),
		})
		return fmt.Errorf("%w: sending email", errs.ErrInternalServer)
	}

	u.logger.Info("Email sent", map[string]any{
		"to":         email.To,
		"subject":    email.Subject,
		"request_id": coreport.RequestIDFromContext(ctx),
	})
	return nil
}
