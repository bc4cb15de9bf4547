package model

import (
	"time"
)

// User represents the database model for users
type User struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement"`
	Email             string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash      string    `gorm:"size:255;not null"`
	Name              string    `gorm:"size:100;not null"`
	ReferralCode      string    `gorm:"size:16;not null;uniqueIndex"`
	ReferredBy        *uint64   `gorm:"index"`
	Balance           int64     `gorm:"not null;default:0;check:chk_users_balance_non_negative,balance >= 0"` // kobo
	EmailVerified     bool      `gorm:"not null;default:false"`
	VerificationToken *string   `gorm:"size:64;uniqueIndex"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
