package usecase

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
)

// NotificationUseCase dispatches transactional email
type NotificationUseCase interface {
	SendEmail(ctx context.Context, email notification.Email) error
}
