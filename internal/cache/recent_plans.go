// Package cache holds the bounded lookaside store of recent plan summaries
// used to enrich AI prompt context. It is advisory only: entries are lost on
// restart and never read back into the plan store.
package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ar2745/cognitive-daily/internal/model"
)

// DefaultLimit is the number of summaries kept per user.
const DefaultLimit = 2

// PlanSummary is the serialized view of a plan kept for prompt context.
type PlanSummary struct {
	PlanDate       string         `json:"plan_date"`
	EnergyLevel    *int           `json:"energy_level"`
	AvailableHours *float64       `json:"available_hours"`
	Schedule       model.Schedule `json:"schedule"`
	CreatedAt      time.Time      `json:"created_at"`
	Notes          *string        `json:"notes"`
}

// RecentPlans keeps the last N plan summaries per user, most recent first.
// Concurrent pushes may interleave; that is acceptable for an advisory cache.
type RecentPlans struct {
	mu     sync.Mutex
	limit  int
	byUser map[uuid.UUID][]PlanSummary
}

func NewRecentPlans(limit int) *RecentPlans {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &RecentPlans{
		limit:  limit,
		byUser: make(map[uuid.UUID][]PlanSummary),
	}
}

// Push prepends a summary for the user and trims to the configured bound.
func (c *RecentPlans) Push(userID uuid.UUID, summary PlanSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := append([]PlanSummary{summary}, c.byUser[userID]...)
	if len(entries) > c.limit {
		entries = entries[:c.limit]
	}
	c.byUser[userID] = entries
}

// Recent returns the user's summaries, most recent first.
func (c *RecentPlans) Recent(userID uuid.UUID) []PlanSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.byUser[userID]
	out := make([]PlanSummary, len(entries))
	copy(out, entries)
	return out
}
