package dto

import (
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// LedgerQuery binds the ledger listing filters
type LedgerQuery struct {
	PageQuery
	Type string `form:"type" binding:"omitempty,oneof=task referral payout payout_refund"`
}

// TransactionResponse represents one ledger entry
type TransactionResponse struct {
	ID          uint64    `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	TaskID      *uint64   `json:"taskId,omitempty"`
	PayoutID    *uint64   `json:"payoutId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReferralResponse represents one referral credited to the signed-in user
type ReferralResponse struct {
	ID         uint64    `json:"id"`
	ReferredID uint64    `json:"referredId"`
	Reward     string    `json:"reward"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewTransactionResponse converts a ledger entry
func NewTransactionResponse(entry *entity.LedgerEntry) TransactionResponse {
	return TransactionResponse{
		ID:          entry.ID,
		Type:        string(entry.Type),
		Amount:      entity.FormatAmount(entry.Amount),
		Description: entry.Description,
		TaskID:      entry.TaskID,
		PayoutID:    entry.PayoutID,
		CreatedAt:   entry.CreatedAt,
	}
}

// NewTransactionResponses converts a page of ledger entries
func NewTransactionResponses(entries []*entity.LedgerEntry) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, NewTransactionResponse(entry))
	}
	return out
}

// NewReferralResponses converts a page of referrals
func NewReferralResponses(referrals []*entity.Referral) []ReferralResponse {
	out := make([]ReferralResponse, 0, len(referrals))
	for _, r := range referrals {
		out = append(out, ReferralResponse{
			ID:         r.ID,
			ReferredID: r.ReferredID,
			Reward:     entity.FormatAmount(r.Reward),
			CreatedAt:  r.CreatedAt,
		})
	}
	return out
}
