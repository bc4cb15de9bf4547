package entity

import (
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDestination() PayoutDestination {
	return PayoutDestination{BankName: "Access Bank", AccountName: "Ada Obi", AccountNumber: "0123456789"}
}

func TestNewPayout(t *testing.T) {
	clock := fixedClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}

	t.Run("Valid bank payout", func(t *testing.T) {
		payout, err := NewPayout(1, 500000, validDestination(), "PO-1", clock)

		require.NoError(t, err)
		assert.Equal(t, PayoutStatusPending, payout.Status)
		assert.Equal(t, "bank", payout.Destination.Method)
		assert.Equal(t, clock.now, payout.RequestedAt)
		assert.Nil(t, payout.ProcessedAt)
	})

	t.Run("Other method needs details", func(t *testing.T) {
		_, err := NewPayout(1, 100, PayoutDestination{Method: "mobile_money"}, "PO-2", clock)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)

		payout, err := NewPayout(1, 100, PayoutDestination{
			Method:  "mobile_money",
			Details: map[string]string{"phone": "08030000000"},
		}, "PO-3", clock)
		require.NoError(t, err)
		assert.Equal(t, "mobile_money", payout.Destination.Method)
	})

	t.Run("Invalid input", func(t *testing.T) {
		bad := validDestination()
		bad.AccountNumber = "12345"

		_, err := NewPayout(1, 0, validDestination(), "PO-4", clock)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		_, err = NewPayout(1, 100, bad, "PO-5", clock)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestPayoutTransitions(t *testing.T) {
	testCases := []struct {
		from    PayoutStatus
		to      PayoutStatus
		allowed bool
	}{
		{PayoutStatusPending, PayoutStatusApproved, true},
		{PayoutStatusPending, PayoutStatusRejected, true},
		{PayoutStatusApproved, PayoutStatusCompleted, true},
		{PayoutStatusPending, PayoutStatusCompleted, false},
		{PayoutStatusApproved, PayoutStatusRejected, false},
		{PayoutStatusRejected, PayoutStatusApproved, false},
		{PayoutStatusCompleted, PayoutStatusRejected, false},
		{PayoutStatusPending, PayoutStatusPending, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestPayoutTransitionTo(t *testing.T) {
	clock := fixedClock{now: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)}
	payout := &Payout{ID: 5, Status: PayoutStatusPending}

	require.NoError(t, payout.TransitionTo(PayoutStatusApproved, " paid via transfer ", clock))
	assert.Equal(t, PayoutStatusApproved, payout.Status)
	assert.Equal(t, clock.now, *payout.ProcessedAt)
	assert.Equal(t, "paid via transfer", payout.Note)

	err := payout.TransitionTo(PayoutStatusRejected, "", clock)
	assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
	assert.Equal(t, PayoutStatusApproved, payout.Status)
}
