package mail

import (
	"context"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultSendGridHost = "https://api.sendgrid.com"
	sendEndpoint        = "/v3/mail/send"
)

// SendGridMailer delivers email through the SendGrid v3 API
type SendGridMailer struct {
	apiKey  string
	host    string
	from    *sgmail.Email
	timeout time.Duration
	logger  coreport.Logger
}

// NewSendGridMailer creates a mailer sending as fromName <fromAddress>
func NewSendGridMailer(apiKey, fromAddress, fromName string, timeout time.Duration, logger coreport.Logger) *SendGridMailer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SendGridMailer{
		apiKey:  apiKey,
		host:    defaultSendGridHost,
		from:    sgmail.NewEmail(fromName, fromAddress),
		timeout: timeout,
		logger:  logger,
	}
}

// WithHost points the mailer at another API host
func (m *SendGridMailer) WithHost(host string) *SendGridMailer {
	m.host = host
	return m
}

// Send delivers email, failing on any non-2xx response
func (m *SendGridMailer) Send(ctx context.Context, email notification.Email) error {
	message := sgmail.NewSingleEmail(
		m.from,
		email.Subject,
		sgmail.NewEmail(email.ToName, email.To),
		email.Body,
		"",
	)

	request := sendgrid.GetRequest(m.apiKey, sendEndpoint, m.host)
	request.Method = rest.Post
	request.Body = sgmail.GetRequestBody(message)

	sendCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	response, err := sendgrid.MakeRequestWithContext(sendCtx, request)
	if err != nil {
		m.logger.Error("SendGrid request failed", map[string]any{
			"to":         email.To,
			"error":      err.Error(),
			"request_id": coreport.RequestIDFromContext(ctx),
		})
		return fmt.Errorf("sending email: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		m.logger.Error("SendGrid rejected email", map[string]any{
			"to":          email.To,
			"status_code": response.StatusCode,
			"body":        response.Body,
			"request_id":  coreport.RequestIDFromContext(ctx),
		})
		return fmt.Errorf("sending email: sendgrid returned status %d", response.StatusCode)
	}

	m.logger.Info("Email sent", map[string]any{
		"to":         email.To,
		"subject":    email.Subject,
		"request_id": coreport.RequestIDFromContext(ctx),
	})
	return nil
}
