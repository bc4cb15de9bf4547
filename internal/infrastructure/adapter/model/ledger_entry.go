package model

import (
	"time"
)

// LedgerEntry represents the database model for the append-only reward ledger
type LedgerEntry struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	UserID         uint64    `gorm:"not null;index"`
	Type           string    `gorm:"size:20;not null;index"`
	Amount         int64     `gorm:"not null"` // signed kobo
	Description    string    `gorm:"size:255"`
	TaskID         *uint64   `gorm:"index"`
	PayoutID       *uint64   `gorm:"index"`
	IdempotencyKey *string   `gorm:"size:64;uniqueIndex"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "transactions"
}
