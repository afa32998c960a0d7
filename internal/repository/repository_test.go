package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ar2745/cognitive-daily/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	return db
}

func TestTaskRoundTripPreservesCustomColumns(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	preferred := model.NewTimeOfDay(9, 30)
	task := &model.Task{
		UserID:        uuid.New(),
		Title:         "write report",
		Duration:      60,
		Priority:      model.PriorityHigh,
		Tags:          model.StringList{"work", "writing"},
		PreferredTime: &preferred,
		Status:        model.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, task))
	require.NotEqual(t, uuid.Nil, task.ID)

	got, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StringList{"work", "writing"}, got.Tags)
	require.NotNil(t, got.PreferredTime)
	assert.Equal(t, "09:30", got.PreferredTime.String())
}

func TestTaskFindByIDMissingReturnsNil(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	got, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTaskListByUserFilterAndOrder(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, tc := range []struct {
		title  string
		status model.TaskStatus
	}{
		{"first", model.StatusPending},
		{"second", model.StatusCompleted},
		{"third", model.StatusPending},
	} {
		require.NoError(t, repo.Create(ctx, &model.Task{
			UserID:    userID,
			Title:     tc.title,
			Duration:  30,
			Priority:  model.PriorityLow,
			Status:    tc.status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(ctx, &model.Task{
		UserID:    uuid.New(),
		Title:     "foreign",
		Duration:  30,
		Priority:  model.PriorityLow,
		Status:    model.StatusPending,
		CreatedAt: base,
	}))

	all, err := repo.ListByUser(ctx, userID, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Title)
	assert.Equal(t, "third", all[2].Title)

	pending := model.StatusPending
	filtered, err := repo.ListByUser(ctx, userID, &pending, 0, 0)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	paged, err := repo.ListByUser(ctx, userID, nil, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "second", paged[0].Title)
}

func TestTaskDeleteReportsExistence(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()

	task := &model.Task{
		UserID:    uuid.New(),
		Title:     "discard",
		Duration:  10,
		Priority:  model.PriorityLow,
		Status:    model.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, task))

	deleted, err := repo.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPlanListByUserDateFilterNewestFirst(t *testing.T) {
	repo := NewDailyPlanRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, date := range []string{"2025-03-01", "2025-03-01", "2025-03-02"} {
		require.NoError(t, repo.Create(ctx, &model.DailyPlan{
			UserID:    userID,
			PlanDate:  date,
			Schedule:  model.Schedule{"09:00": {"work"}},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	date := "2025-03-01"
	plans, err := repo.ListByUser(ctx, userID, &date, 0, 0)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.True(t, plans[0].CreatedAt.After(plans[1].CreatedAt))
	assert.Equal(t, model.Schedule{"09:00": {"work"}}, plans[0].Schedule)
}

func TestUserFindByEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &model.User{
		Name:        "Planner",
		Email:       "planner@example.com",
		Timezone:    "Europe/Berlin",
		Preferences: model.JSONMap{"wake_time": "06:30"},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.FindByEmail(ctx, "planner@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "06:30", got.Preferences["wake_time"])

	missing, err := repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
