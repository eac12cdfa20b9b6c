package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// Task is a work item owned by a single user, optionally tagged with one
// of that user's categories.
type Task struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey"`
	Title       string     `gorm:"type:mediumtext;not null"`
	Description string     `gorm:"type:mediumtext"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_tasks_user_status,priority:2"`
	UserID      uuid.UUID  `gorm:"type:char(36);not null;index:idx_tasks_user_created,priority:1;index:idx_tasks_user_status,priority:1;index:idx_tasks_user_category,priority:1"`
	CategoryID  *uuid.UUID `gorm:"type:char(36);index:idx_tasks_user_category,priority:2"`
	CreatedAt   time.Time  `gorm:"index:idx_tasks_user_created,priority:2,sort:desc"`
	UpdatedAt   time.Time  `gorm:"index:idx_tasks_user_status,priority:3;index:idx_tasks_user_category,priority:3"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
