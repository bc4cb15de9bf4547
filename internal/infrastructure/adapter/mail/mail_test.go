package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/notification"
	loggeradapter "github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendGridMailer_Send(t *testing.T) {
	var captured map[string]any
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	mailer := NewSendGridMailer("SG.key", "support@dailyearn.ng", "DailyEarn", time.Second, loggeradapter.NewNoopLogger()).
		WithHost(server.URL)

	err := mailer.Send(context.Background(), notification.Email{
		To:      "ada@example.com",
		ToName:  "Ada",
		Subject: "Welcome",
		Body:    "Hello Ada",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer SG.key", auth)
	assert.Equal(t, "Welcome", captured["subject"])
	from := captured["from"].(map[string]any)
	assert.Equal(t, "support@dailyearn.ng", from["email"])
}

func TestSendGridMailer_RejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer server.Close()

	mailer := NewSendGridMailer("SG.bad", "support@dailyearn.ng", "DailyEarn", time.Second, loggeradapter.NewNoopLogger()).
		WithHost(server.URL)

	err := mailer.Send(context.Background(), notification.Email{To: "ada@example.com", Subject: "Hi", Body: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestLogMailer(t *testing.T) {
	mailer := NewLogMailer(loggeradapter.NewNoopLogger())

	require.NoError(t, mailer.Send(context.Background(), notification.Email{To: "a@example.com", Subject: "One"}))
	require.NoError(t, mailer.Send(context.Background(), notification.Email{To: "b@example.com", Subject: "Two"}))

	sent := mailer.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "Two", sent[1].Subject)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, mailer.Send(ctx, notification.Email{To: "c@example.com"}), context.Canceled)
}
