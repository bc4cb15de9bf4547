package mail

import (
	"context"
	"sync"

	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
)

// LogMailer writes email to the log instead of sending it. Used in development and tests.
type LogMailer struct {
	logger coreport.Logger

	mu   sync.Mutex
	sent []notification.Email
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(logger coreport.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the email and keeps a copy
func (m *LogMailer) Send(ctx context.Context, email notification.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.sent = append(m.sent, email)
	m.mu.Unlock()

	m.logger.Info("Email captured", map[string]any{
		"to":         email.To,
		"subject":    email.Subject,
		"body_bytes": len(email.Body),
		"request_id": coreport.RequestIDFromContext(ctx),
	})
	return nil
}

// Sent returns the captured email in send order
func (m *LogMailer) Sent() []notification.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	sent := make([]notification.Email, len(m.sent))
	copy(sent, m.sent)
	return sent
}
