package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User stores profile data relevant to planning: preferences feed AI prompt
// context and the timezone is the authoritative clock for reconciliation.
type User struct {
	ID                  uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	Name                string    `json:"name"`
	Email               string    `gorm:"uniqueIndex" json:"email"`
	CreatedAt           time.Time `json:"created_at"`
	Preferences         JSONMap   `gorm:"type:text" json:"preferences"`
	DefaultWorkingHours *int      `json:"default_working_hours,omitempty"`
	Timezone            string    `json:"timezone,omitempty"` // IANA identifier, may be empty
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
