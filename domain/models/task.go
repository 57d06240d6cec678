package models

import "time"

type TaskStatus string

const (
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusPending   TaskStatus = "pending"
)

type Task struct {
	ID          uint       `gorm:"primaryKey"`
	Title       string     `gorm:"type:varchar(60);not null"`
	Description string     `gorm:"type:varchar(256);not null"`
	IsCompleted TaskStatus `gorm:"type:varchar(16);not null;default:'pending';index"`
	UserID      uint       `gorm:"not null;index"`
	User        *User      `gorm:"foreignKey:UserID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Task) TableName() string {
	return "tasks"
}

func (s TaskStatus) Valid() bool {
	return s == TaskStatusCompleted || s == TaskStatusPending
}
