package model

import (
	"time"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	"gorm.io/datatypes"
)

// Payout represents the database model for payout requests
type Payout struct {
	ID          uint64                                       `gorm:"primaryKey;autoIncrement"`
	UserID      uint64                                       `gorm:"not null;index"`
	Amount      int64                                        `gorm:"not null"` // kobo
	Destination datatypes.JSONType[entity.PayoutDestination] `gorm:"not null"`
	Status      string                                       `gorm:"size:20;not null;index"`
	Reference   string                                       `gorm:"size:32;not null;uniqueIndex"`
	Note        string                                       `gorm:"size:500"`
	RequestedAt time.Time                                    `gorm:"not null;index"`
	ProcessedAt *time.Time
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for Payout
func (Payout) TableName() string {
	return "payouts"
}
