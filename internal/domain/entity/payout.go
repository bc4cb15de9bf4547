package entity

import (
	"regexp"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
)

// PayoutStatus represents where a payout request is in its lifecycle
type PayoutStatus string

// PayoutStatus constants
const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusApproved  PayoutStatus = "approved"
	PayoutStatusRejected  PayoutStatus = "rejected"
	PayoutStatusCompleted PayoutStatus = "completed"
)

var (
	payoutTransitions = map[PayoutStatus][]PayoutStatus{
		PayoutStatusPending:  {PayoutStatusApproved, PayoutStatusRejected},
		PayoutStatusApproved: {PayoutStatusCompleted},
	}
	accountNumberPattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// IsValid reports whether s is a known payout status
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusApproved, PayoutStatusRejected, PayoutStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether a payout may move from s to target
func (s PayoutStatus) CanTransitionTo(target PayoutStatus) bool {
	for _, allowed := range payoutTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// PayoutDestination is where the money goes: a bank account, or another
// method described by free-form details.
type PayoutDestination struct {
	BankName      string            `json:"bankName,omitempty"`
	AccountName   string            `json:"accountName,omitempty"`
	AccountNumber string            `json:"accountNumber,omitempty"`
	Method        string            `json:"method,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// Validate checks that the destination is complete
func (d *PayoutDestination) Validate() error {
	d.BankName = strings.TrimSpace(d.BankName)
	d.AccountName = strings.TrimSpace(d.AccountName)
	d.AccountNumber = strings.TrimSpace(d.AccountNumber)
	d.Method = strings.TrimSpace(d.Method)

	if d.Method == "" || d.Method == "bank" {
		d.Method = "bank"
		if d.BankName == "" {
			return errs.NewValidationError("bankName", "is required")
		}
		if d.AccountName == "" {
			return errs.NewValidationError("accountName", "is required")
		}
		if !accountNumberPattern.MatchString(d.AccountNumber) {
			return errs.NewValidationError("accountNumber", "must be 10 digits")
		}
		return nil
	}
	if len(d.Details) == 0 {
		return errs.NewValidationError("details", "are required for method "+d.Method)
	}
	return nil
}

// Payout is a user's withdrawal request
type Payout struct {
	ID          uint64
	UserID      uint64
	Amount      int64 // kobo, held from the balance at request time
	Destination PayoutDestination
	Status      PayoutStatus
	Reference   string
	Note        string
	RequestedAt time.Time
	ProcessedAt *time.Time
	UpdatedAt   time.Time
}

// NewPayout creates a pending payout
func NewPayout(userID uint64, amount int64, destination PayoutDestination, reference string, timeProvider coreport.TimeProvider) (*Payout, error) {
	if amount <= 0 {
		return nil, errs.NewValidationError("amount", "must be greater than zero")
	}
	if err := destination.Validate(); err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Payout{
		UserID:      userID,
		Amount:      amount,
		Destination: destination,
		Status:      PayoutStatusPending,
		Reference:   reference,
		RequestedAt: now,
		UpdatedAt:   now,
	}, nil
}

// TransitionTo moves the payout to target and stamps the processing time
func (p *Payout) TransitionTo(target PayoutStatus, note string, timeProvider coreport.TimeProvider) error {
	if !p.Status.CanTransitionTo(target) {
		return errs.NewStatusTransitionError("payout", p.ID, string(p.Status), string(target))
	}

	now := timeProvider.Now()
	p.Status = target
	p.ProcessedAt = &now
	p.UpdatedAt = now
	if note = strings.TrimSpace(note); note != "" {
		p.Note = note
	}
	return nil
}
