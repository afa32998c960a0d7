package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyPlan is a dated, time-slotted view of a user's tasks. The schedule
// keys tasks by title rather than id; reconciliation resolves titles back to
// tasks by title and preferred time.
//
// Multiple plans may exist for the same (user, plan_date) pair; uniqueness is
// left to callers.
type DailyPlan struct {
	ID             uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:text;index" json:"user_id"`
	PlanDate       string    `gorm:"index" json:"plan_date"` // DateLayout
	EnergyLevel    *int      `json:"energy_level,omitempty"`
	AvailableHours *float64  `json:"available_hours,omitempty"`
	Schedule       Schedule  `gorm:"type:text" json:"schedule"`
	CreatedAt      time.Time `json:"created_at"`
	Notes          *string   `json:"notes,omitempty"`
}

func (p *DailyPlan) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
