package persistence

import "github.com/amirhossein-jamali/daily-earn/internal/domain/entity"

// UserFilter narrows user listings
type UserFilter struct {
	Search string // matched against email and name
	Page   entity.Page
}

// TaskFilter narrows task listings
type TaskFilter struct {
	Status   entity.TaskStatus
	Category string
	Page     entity.Page
}

// LedgerFilter narrows ledger listings
type LedgerFilter struct {
	UserID uint64
	Type   entity.EntryType
	Page   entity.Page
}

// PayoutFilter narrows payout listings
type PayoutFilter struct {
	UserID uint64
	Status entity.PayoutStatus
	Page   entity.Page
}

// ContactFilter narrows contact message listings
type ContactFilter struct {
	Status entity.ContactStatus
	Page   entity.Page
}
