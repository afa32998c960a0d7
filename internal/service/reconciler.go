package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ar2745/cognitive-daily/internal/model"
	"github.com/ar2745/cognitive-daily/internal/repository"
	"github.com/ar2745/cognitive-daily/internal/schedule"
)

// Reconciler flips scheduled tasks whose slot end time has passed into the
// missed status. Only plans dated "today" in the owning user's timezone are
// touched; past and future plans are never auto-mutated.
type Reconciler struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewReconciler(taskRepo *repository.TaskRepository, userRepo *repository.UserRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{taskRepo: taskRepo, userRepo: userRepo, logger: logger}
}

// Reconcile walks each plan's schedule against now. The first store failure
// aborts the remainder of the batch; timezone problems never do.
func (r *Reconciler) Reconcile(ctx context.Context, plans []*model.DailyPlan, now time.Time) error {
	for _, plan := range plans {
		if err := r.reconcilePlan(ctx, plan, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) reconcilePlan(ctx context.Context, plan *model.DailyPlan, now time.Time) error {
	loc := r.userLocation(ctx, plan.UserID)
	localNow := now.In(loc)
	if plan.PlanDate != localNow.Format(model.DateLayout) {
		return nil
	}

	// One task fetch per plan; the slot index replaces a per-title rescan.
	tasks, err := r.taskRepo.ListByUser(ctx, plan.UserID, nil, 0, 0)
	if err != nil {
		return err
	}
	bySlot := make(map[string][]*model.Task)
	for i := range tasks {
		task := &tasks[i]
		if task.PreferredTime == nil || task.Status.Terminal() {
			continue
		}
		key := task.PreferredTime.String()
		bySlot[key] = append(bySlot[key], task)
	}

	for slot, titles := range plan.Schedule {
		if slot == schedule.UnscheduledSlot {
			continue
		}
		slotTime, err := model.ParseTimeOfDay(slot)
		if err != nil {
			// Malformed slot keys are skipped, never fatal.
			r.logger.Warn("skipping unparseable schedule slot",
				zap.String("slot", slot), zap.String("plan_id", plan.ID.String()))
			continue
		}

		for _, title := range titles {
			for _, task := range bySlot[slotTime.String()] {
				if task.Title != title || task.Status.Terminal() {
					continue
				}
				start := time.Date(localNow.Year(), localNow.Month(), localNow.Day(),
					slotTime.Hour, slotTime.Minute, 0, 0, loc)
				end := start.Add(time.Duration(task.Duration) * time.Minute)
				if !localNow.After(end) {
					continue
				}
				task.Status = model.StatusMissed
				if err := r.taskRepo.Save(ctx, task); err != nil {
					return fmt.Errorf("mark task missed: %w", err)
				}
			}
		}
	}
	return nil
}

// userLocation resolves the owner's timezone, falling back to UTC when the
// user is missing, has no zone, or the zone does not resolve. Fail-open:
// reconciliation must never be blocked by a bad timezone.
func (r *Reconciler) userLocation(ctx context.Context, userID uuid.UUID) *time.Location {
	user, err := r.userRepo.FindByID(ctx, userID)
	if err != nil {
		r.logger.Warn("timezone lookup failed, using UTC",
			zap.String("user_id", userID.String()), zap.Error(err))
		return time.UTC
	}
	if user == nil || user.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(user.Timezone)
	if err != nil {
		r.logger.Warn("invalid timezone, using UTC",
			zap.String("user_id", userID.String()),
			zap.String("timezone", user.Timezone), zap.Error(err))
		return time.UTC
	}
	return loc
}
