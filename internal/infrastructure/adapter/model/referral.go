package model

import (
	"time"
)

// Referral represents the database model for referrals
type Referral struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ReferrerID uint64    `gorm:"not null;index"`
	ReferredID uint64    `gorm:"not null;uniqueIndex"`
	Reward     int64     `gorm:"not null"` // kobo
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName specifies the table name for Referral
func (Referral) TableName() string {
	return "referrals"
}
