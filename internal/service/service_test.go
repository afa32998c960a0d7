package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ar2745/cognitive-daily/internal/cache"
	"github.com/ar2745/cognitive-daily/internal/model"
	"github.com/ar2745/cognitive-daily/internal/repository"
)

// testEnv wires the services against a throwaway SQLite database.
type testEnv struct {
	taskRepo *repository.TaskRepository
	planRepo *repository.DailyPlanRepository
	userRepo *repository.UserRepository
	recent   *cache.RecentPlans

	tasks      *TaskService
	plans      *PlanService
	reconciler *Reconciler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)

	env := &testEnv{
		taskRepo: repository.NewTaskRepository(db),
		planRepo: repository.NewDailyPlanRepository(db),
		userRepo: repository.NewUserRepository(db),
		recent:   cache.NewRecentPlans(2),
	}
	logger := zap.NewNop()
	env.reconciler = NewReconciler(env.taskRepo, env.userRepo, logger)
	env.tasks = NewTaskService(env.taskRepo)
	env.plans = NewPlanService(env.planRepo, env.taskRepo, env.userRepo, env.recent, env.reconciler, logger)
	return env
}

func (e *testEnv) seedUser(t *testing.T, timezone string) *model.User {
	t.Helper()
	user := &model.User{
		Name:      "Test User",
		Email:     "test-" + timezone + "@example.com",
		Timezone:  timezone,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedTask(t *testing.T, task model.Task) *model.Task {
	t.Helper()
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	require.NoError(t, e.taskRepo.Create(context.Background(), &task))
	return &task
}

func timeAt(hour, minute int) *model.TimeOfDay {
	t := model.NewTimeOfDay(hour, minute)
	return &t
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
