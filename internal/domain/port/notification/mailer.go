package notification

import "context"

// Email is a plain transactional message
type Email struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Mailer delivers transactional email
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
