package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
	loggeradapter "github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/logger"
	notificationmocks "github.com/amirhossein-jamali/daily-earn/mocks/port/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSendEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Normalizes and sends", func(t *testing.T) {
		mockMailer := notificationmocks.NewMockMailer(t)
		mockMailer.EXPECT().Send(mock.Anything, mock.MatchedBy(func(email notification.Email) bool {
			return email.To == "ada@example.com" && email.Subject == "Welcome" && email.Body == "Hello"
		})).Return(nil).Once()

		service := NewNotificationUseCase(mockMailer, loggeradapter.NewNoopLogger())
		err := service.SendEmail(ctx, notification.Email{
			To:      " Ada@Example.com ",
			Subject: " Welcome ",
			Body:    "Hello\n",
		})

		require.NoError(t, err)
	})

	t.Run("Mailer failure is internal", func(t *testing.T) {
		mockMailer := notificationmocks.NewMockMailer(t)
		mockMailer.EXPECT().Send(mock.Anything, mock.Anything).Return(errors.New("provider down")).Once()

		service := NewNotificationUseCase(mockMailer, loggeradapter.NewNoopLogger())
		err := service.SendEmail(ctx, notification.Email{To: "ada@example.com", Subject: "Hi", Body: "Hello"})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInternalServer)
		assert.NotContains(t, err.Error(), "provider down")
	})

	testCases := []struct {
		name  string
		email notification.Email
		field string
	}{
		{"Bad recipient", notification.Email{To: "not-an-address", Subject: "Hi", Body: "Hello"}, "to"},
		{"Missing recipient", notification.Email{Subject: "Hi", Body: "Hello"}, "to"},
		{"Missing subject", notification.Email{To: "ada@example.com", Subject: "  ", Body: "Hello"}, "subject"},
		{"Long subject", notification.Email{To: "ada@example.com", Subject: strings.Repeat("s", MaxSubjectLength+1), Body: "Hello"}, "subject"},
		{"Missing body", notification.Email{To: "ada@example.com", Subject: "Hi"}, "body"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// No expectations: the mailer must not be called
			mockMailer := notificationmocks.NewMockMailer(t)
			service := NewNotificationUseCase(mockMailer, loggeradapter.NewNoopLogger())

			err := service.SendEmail(ctx, tc.email)

			var validationErr *errs.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}
