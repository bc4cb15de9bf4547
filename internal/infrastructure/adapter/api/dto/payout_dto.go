package dto

import (
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
)

// PayoutRequest represents the API request for a withdrawal
type PayoutRequest struct {
	Amount        string            `json:"amount" binding:"required,money"`
	Method        string            `json:"method" binding:"omitempty,max=30"`
	BankName      string            `json:"bankName" binding:"max=100"`
	AccountName   string            `json:"accountName" binding:"max=100"`
	AccountNumber string            `json:"accountNumber" binding:"max=20"`
	Details       map[string]string `json:"details" binding:"max=10"`
}

// PayoutStatusRequest represents an admin status change
type PayoutStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected completed"`
	Note   string `json:"note" binding:"max=500"`
}

// PayoutQuery binds the admin payout listing filters
type PayoutQuery struct {
	PageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected completed"`
	UserID uint64 `form:"userId"`
}

// PayoutResponse represents a payout
type PayoutResponse struct {
	ID          uint64                   `json:"id"`
	UserID      uint64                   `json:"userId"`
	Amount      string                   `json:"amount"`
	Destination entity.PayoutDestination `json:"destination"`
	Status      string                   `json:"status"`
	Reference   string                   `json:"reference"`
	Note        string                   `json:"note,omitempty"`
	RequestedAt time.Time                `json:"requestedAt"`
	ProcessedAt *time.Time               `json:"processedAt,omitempty"`
}

// RequestPayoutResponse is a new (or replayed) payout with the balance after the hold
type RequestPayoutResponse struct {
	Payout     PayoutResponse `json:"payout"`
	NewBalance string         `json:"newBalance"`
	Replayed   bool           `json:"replayed"`
}

// Destination builds the domain destination from the request
func (r PayoutRequest) Destination() entity.PayoutDestination {
	return entity.PayoutDestination{
		BankName:      r.BankName,
		AccountName:   r.AccountName,
		AccountNumber: r.AccountNumber,
		Method:        r.Method,
		Details:       r.Details,
	}
}

// NewPayoutResponse converts a payout
func NewPayoutResponse(payout *entity.Payout) PayoutResponse {
	return PayoutResponse{
		ID:          payout.ID,
		UserID:      payout.UserID,
		Amount:      entity.FormatAmount(payout.Amount),
		Destination: payout.Destination,
		Status:      string(payout.Status),
		Reference:   payout.Reference,
		Note:        payout.Note,
		RequestedAt: payout.RequestedAt,
		ProcessedAt: payout.ProcessedAt,
	}
}

// NewPayoutResponses converts a page of payouts
func NewPayoutResponses(payouts []*entity.Payout) []PayoutResponse {
	out := make([]PayoutResponse, 0, len(payouts))
	for _, payout := range payouts {
		out = append(out, NewPayoutResponse(payout))
	}
	return out
}
