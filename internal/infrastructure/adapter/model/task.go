package model

import (
	"time"
)

// Task represents the database model for tasks
type Task struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Reward      int64     `gorm:"not null"` // kobo
	Category    string    `gorm:"size:50;not null;index"`
	Link        string    `gorm:"size:500"`
	Status      string    `gorm:"size:20;not null;index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}
