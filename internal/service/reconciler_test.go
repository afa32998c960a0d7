package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ar2745/cognitive-daily/internal/model"
)

// reconcileAt runs a single-plan reconciliation at the given instant and
// returns the task reloaded from the store.
func reconcileAt(t *testing.T, env *testEnv, plan *model.DailyPlan, task *model.Task, now time.Time) *model.Task {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.reconciler.Reconcile(ctx, []*model.DailyPlan{plan}, now))
	reloaded, err := env.taskRepo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	return reloaded
}

func TestReconcileMarksOverdueTaskMissed(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "UTC")
	task := env.seedTask(t, model.Task{
		UserID:        user.ID,
		Title:         "write report",
		Duration:      30,
		Status:        model.StatusPending,
		PreferredTime: timeAt(8, 0),
	})
	plan := &model.DailyPlan{
		UserID:   user.ID,
		PlanDate: "2025-03-10",
		Schedule: model.Schedule{"08:00": {"write report"}},
	}

	// 08:00 slot plus 30 minutes ends at 08:30; 08:31 is past it.
	reloaded := reconcileAt(t, env, plan, task,
		time.Date(2025, 3, 10, 8, 31, 0, 0, time.UTC))
	assert.Equal(t, model.StatusMissed, reloaded.Status)
}

func TestReconcileLeavesTaskBeforeSlotEnd(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "UTC")
	task := env.seedTask(t, model.Task{
		UserID:        user.ID,
		Title:         "write report",
		Duration:      30,
		Status:        model.StatusPending,
		PreferredTime: timeAt(8, 0),
	})
	plan := &model.DailyPlan{
		UserID:   user.ID,
		PlanDate: "2025-03-10",
		Schedule: model.Schedule{"08:00": {"write report"}},
	}

	reloaded := reconcileAt(t, env, plan, task,
		time.Date(2025, 3, 10, 8, 29, 0, 0, time.UTC))
	assert.Equal(t, model.StatusPending, reloaded.Status)

	// Exactly at the slot end is not yet overdue.
	reloaded = reconcileAt(t, env, plan, task,
		time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC))
	assert.Equal(t, model.StatusPending, reloaded.Status)
}

func TestReconcileOnlyTouchesTodaysPlans(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "UTC")
	task := env.seedTask(t, model.Task{
		UserID:        user.ID,
		Title:         "write report",
		Duration:      30,
		Status:        model.StatusPending,
		PreferredTime: timeAt(8, 0),
	})
	now := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)

	for _, date := range []string{"2025-03-09", "2025-03-11"} {
		plan := &model.DailyPlan{
			UserID:   user.ID,
			PlanDate: date,
			Schedule: model.Schedule{"08:00": {"write report"}},
		}
		reloaded := reconcileAt(t, env, plan, task, now)
		assert.Equal(t, model.StatusPending, reloaded.Status, date)
	}
}

func TestReconcileSkipsTerminalTasks(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "UTC")
	done := time.Date(2025, 3, 10, 8, 15, 0, 0, time.UTC)
	task := env.seedTask(t, model.Task{
		UserID:        user.ID,
		Title:         "write report",
		Duration:      30,
		Status:        model.StatusCompleted,
		PreferredTime: timeAt(8, 0),
		CompletedAt:   &done,
	})
	plan := &model.DailyPlan{
		UserID:   user.ID,
		PlanDate: "2025-03-10",
		Schedule: model.Schedule{"08:00": {"write report"}},
	}

	reloaded := reconcileAt(t, env, plan, task,
		time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, model.StatusCompleted, reloaded.Status)
}

func TestReconcileSkipsMalformedAndSentinelSlots(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "UTC")
	task := env.seedTask(t, model.Task{
		UserID:        user.ID,
		Title:         "write report",
		Duration:      30,
		Status:        model.StatusPending,
		PreferredTime: timeAt(8, 0),
	})
	plan := &model.DailyPlan{
		UserID:   user.ID,
		PlanDate: "2025-03-10",
		Schedule: model.Schedule{
			"morning":     {"write report"},
			"unscheduled": {"write report"},
		},
	}

	reloaded := reconcileAt(t, env, plan, task,
		time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, model.StatusPending, reloaded.Status)
}

func TestReconcileMatchesTitleAndSlotTogether(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "UTC")
	// Same title at a different preferred time: slot mismatch, no flip.
	task := env.seedTask(t, model.Task{
		UserID:        user.ID,
		Title:         "write report",
		Duration:      30,
		Status:        model.StatusPending,
		PreferredTime: timeAt(14, 0),
	})
	plan := &model.DailyPlan{
		UserID:   user.ID,
		PlanDate: "2025-03-10",
		Schedule: model.Schedule{"08:00": {"write report"}},
	}

	reloaded := reconcileAt(t, env, plan, task,
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, model.StatusPending, reloaded.Status)
}

func TestReconcileUsesOwnerTimezone(t *testing.T) {
	env := newTestEnv(t)
	// UTC+13: at 20:00 UTC on March 9 it is already March 10, 09:00 locally.
	user := env.seedUser(t, "Pacific/Auckland")
	task := env.seedTask(t, model.Task{
		UserID:        user.ID,
		Title:         "morning run",
		Duration:      30,
		Status:        model.StatusPending,
		PreferredTime: timeAt(7, 0),
	})
	plan := &model.DailyPlan{
		UserID:   user.ID,
		PlanDate: "2025-03-10",
		Schedule: model.Schedule{"07:00": {"morning run"}},
	}

	reloaded := reconcileAt(t, env, plan, task,
		time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, model.StatusMissed, reloaded.Status)
}

func TestReconcileInvalidTimezoneFallsBackToUTC(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Mars/Olympus")
	task := env.seedTask(t, model.Task{
		UserID:        user.ID,
		Title:         "write report",
		Duration:      30,
		Status:        model.StatusPending,
		PreferredTime: timeAt(8, 0),
	})
	plan := &model.DailyPlan{
		UserID:   user.ID,
		PlanDate: "2025-03-10",
		Schedule: model.Schedule{"08:00": {"write report"}},
	}

	reloaded := reconcileAt(t, env, plan, task,
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, model.StatusMissed, reloaded.Status)
}
