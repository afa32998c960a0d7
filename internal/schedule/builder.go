// Package schedule derives time-slot mappings from a user's open tasks.
package schedule

import "github.com/ar2745/cognitive-daily/internal/model"

// UnscheduledSlot is the schedule key for tasks without a preferred time.
const UnscheduledSlot = "unscheduled"

// Build groups open tasks into schedule slots keyed by preferred time,
// formatted as zero-padded "HH:MM". Tasks in a terminal status never enter
// the schedule. Relative task order is preserved within each slot.
func Build(tasks []model.Task) model.Schedule {
	built := model.Schedule{}
	for _, task := range tasks {
		if task.Status.Terminal() {
			continue
		}
		slot := UnscheduledSlot
		if task.PreferredTime != nil {
			slot = task.PreferredTime.String()
		}
		built[slot] = append(built[slot], task.Title)
	}
	return built
}
