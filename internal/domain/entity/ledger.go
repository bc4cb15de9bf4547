package entity

import (
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
)

// EntryType says why a balance changed
type EntryType string

// Ledger entry types
const (
	EntryTypeTask         EntryType = "task"
	EntryTypeReferral     EntryType = "referral"
	EntryTypePayout       EntryType = "payout"
	EntryTypePayoutRefund EntryType = "payout_refund"
)

// IsValid reports whether t is a known entry type
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeTask, EntryTypeReferral, EntryTypePayout, EntryTypePayoutRefund:
		return true
	}
	return false
}

// LedgerEntry is an append-only record of one balance change
type LedgerEntry struct {
	ID             uint64
	UserID         uint64
	Type           EntryType
	Amount         int64 // signed kobo
	Description    string
	TaskID         *uint64
	PayoutID       *uint64
	IdempotencyKey *string
	CreatedAt      time.Time
}

// NewTaskEntry records a task reward
func NewTaskEntry(userID uint64, task *Task, idempotencyKey string, timeProvider coreport.TimeProvider) *LedgerEntry {
	taskID := task.ID
	return &LedgerEntry{
		UserID:         userID,
		Type:           EntryTypeTask,
		Amount:         task.Reward,
		Description:    fmt.Sprintf("Reward for task: %s", task.Title),
		TaskID:         &taskID,
		IdempotencyKey: optionalKey(idempotencyKey),
		CreatedAt:      timeProvider.Now(),
	}
}

// NewReferralEntry records a referral bonus paid to the referrer
func NewReferralEntry(referrerID uint64, reward int64, referredEmail string, timeProvider coreport.TimeProvider) *LedgerEntry {
	return &LedgerEntry{
		UserID:      referrerID,
		Type:        EntryTypeReferral,
		Amount:      reward,
		Description: fmt.Sprintf("Referral bonus for %s", referredEmail),
		CreatedAt:   timeProvider.Now(),
	}
}

// NewPayoutEntry records the hold placed on the balance when a payout is requested
func NewPayoutEntry(payout *Payout, idempotencyKey string, timeProvider coreport.TimeProvider) *LedgerEntry {
	payoutID := payout.ID
	return &LedgerEntry{
		UserID:         payout.UserID,
		Type:           EntryTypePayout,
		Amount:         -payout.Amount,
		Description:    fmt.Sprintf("Payout request %s", payout.Reference),
		PayoutID:       &payoutID,
		IdempotencyKey: optionalKey(idempotencyKey),
		CreatedAt:      timeProvider.Now(),
	}
}

// NewPayoutRefundEntry reverses the hold of a rejected payout
func NewPayoutRefundEntry(payout *Payout, timeProvider coreport.TimeProvider) *LedgerEntry {
	payoutID := payout.ID
	return &LedgerEntry{
		UserID:      payout.UserID,
		Type:        EntryTypePayoutRefund,
		Amount:      payout.Amount,
		Description: fmt.Sprintf("Refund for rejected payout %s", payout.Reference),
		PayoutID:    &payoutID,
		CreatedAt:   timeProvider.Now(),
	}
}

// IsCredit returns true if this entry increased the balance
func (e *LedgerEntry) IsCredit() bool {
	return e.Amount > 0
}

// CooldownRemaining returns whole seconds left before the task behind this entry
// may be completed again, floored and clamped to [0, cooldown].
func (e *LedgerEntry) CooldownRemaining(cooldown time.Duration, now time.Time) int64 {
	remaining := e.CreatedAt.Add(cooldown).Sub(now)
	if remaining <= 0 {
		return 0
	}
	if remaining > cooldown {
		remaining = cooldown
	}
	return int64(remaining / time.Second)
}

func optionalKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}
