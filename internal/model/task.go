package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskPriority ranks a task's importance.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
	StatusMissed     TaskStatus = "missed"
)

// Valid reports whether the status is one of the known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusMissed:
		return true
	}
	return false
}

// Terminal reports whether the status excludes a task from schedules and
// from reconciliation.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusMissed
}

// Task represents a single item in the planner.
type Task struct {
	ID            uuid.UUID    `gorm:"type:text;primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"type:text;index" json:"user_id"`
	Title         string       `json:"title"`
	Duration      int          `json:"duration"` // minutes
	Priority      TaskPriority `json:"priority"`
	Tags          StringList   `gorm:"type:text" json:"tags"`
	PreferredTime *TimeOfDay   `gorm:"type:text" json:"preferred_time,omitempty"`
	Status        TaskStatus   `gorm:"index" json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
