package model

import (
	"time"
)

// ContactMessage represents the database model for contact form messages
type ContactMessage struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"size:100;not null"`
	Email       string    `gorm:"size:255;not null;index"`
	Subject     string    `gorm:"size:200;not null"`
	Body        string    `gorm:"type:text;not null"`
	Status      string    `gorm:"size:20;not null;index"`
	Response    string    `gorm:"type:text"`
	UserID      *uint64   `gorm:"index"`
	RespondedAt *time.Time
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for ContactMessage
func (ContactMessage) TableName() string {
	return "contact_messages"
}
