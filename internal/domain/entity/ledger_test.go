package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTaskEntry(t *testing.T) {
	clock := fixedClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	task := &Task{ID: 4, Title: "Watch ad", Reward: 5000}

	entry := NewTaskEntry(2, task, "key-1", clock)

	assert.Equal(t, EntryTypeTask, entry.Type)
	assert.Equal(t, uint64(2), entry.UserID)
	assert.Equal(t, int64(5000), entry.Amount)
	assert.Equal(t, uint64(4), *entry.TaskID)
	assert.Equal(t, "key-1", *entry.IdempotencyKey)
	assert.Equal(t, clock.now, entry.CreatedAt)
	assert.True(t, entry.IsCredit())

	withoutKey := NewTaskEntry(2, task, "", clock)
	assert.Nil(t, withoutKey.IdempotencyKey)
}

func TestPayoutEntries(t *testing.T) {
	clock := fixedClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	payout := &Payout{ID: 11, UserID: 3, Amount: 500000, Reference: "PO-ABC"}

	hold := NewPayoutEntry(payout, "", clock)
	refund := NewPayoutRefundEntry(payout, clock)

	assert.Equal(t, EntryTypePayout, hold.Type)
	assert.Equal(t, int64(-500000), hold.Amount)
	assert.False(t, hold.IsCredit())
	assert.Equal(t, EntryTypePayoutRefund, refund.Type)
	assert.Equal(t, int64(500000), refund.Amount)
	assert.Equal(t, uint64(11), *refund.PayoutID)
	assert.Equal(t, int64(0), hold.Amount+refund.Amount)
}

func TestCooldownRemaining(t *testing.T) {
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	entry := &LedgerEntry{CreatedAt: created}
	cooldown := 20 * time.Second

	testCases := []struct {
		name     string
		now      time.Time
		expected int64
	}{
		{"just completed", created, 20},
		{"floors partial seconds", created.Add(2500 * time.Millisecond), 17},
		{"last second", created.Add(19*time.Second + time.Millisecond), 0},
		{"elapsed", created.Add(cooldown), 0},
		{"long ago", created.Add(time.Hour), 0},
		{"clock skew", created.Add(-5 * time.Second), 20},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, entry.CooldownRemaining(cooldown, tc.now))
		})
	}
}

func TestEntryTypeIsValid(t *testing.T) {
	assert.True(t, EntryTypeTask.IsValid())
	assert.True(t, EntryTypePayoutRefund.IsValid())
	assert.False(t, EntryType("bonus").IsValid())
}
