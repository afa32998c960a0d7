package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ar2745/cognitive-daily/internal/cache"
	"github.com/ar2745/cognitive-daily/internal/model"
	"github.com/ar2745/cognitive-daily/internal/repository"
	"github.com/ar2745/cognitive-daily/internal/schedule"
)

// PlanInput represents data required to create a daily plan. Any schedule in
// the creation payload is ignored; the server computes it from the caller's
// open tasks.
type PlanInput struct {
	PlanDate       string   `json:"plan_date"`
	EnergyLevel    *int     `json:"energy_level,omitempty"`
	AvailableHours *float64 `json:"available_hours,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

// PlanPatch carries a partial plan update; nil fields are left unchanged.
// When Schedule is nil the schedule is regenerated from the user's pending
// tasks, a narrower filter than the all-open-statuses one used at creation.
type PlanPatch struct {
	PlanDate       *string        `json:"plan_date,omitempty"`
	EnergyLevel    *int           `json:"energy_level,omitempty"`
	AvailableHours *float64       `json:"available_hours,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	Schedule       model.Schedule `json:"schedule,omitempty"`
}

// PlanService owns the daily plan lifecycle. Every read path runs
// reconciliation before returning.
type PlanService struct {
	planRepo   *repository.DailyPlanRepository
	taskRepo   *repository.TaskRepository
	userRepo   *repository.UserRepository
	recent     *cache.RecentPlans
	reconciler *Reconciler
	logger     *zap.Logger
}

func NewPlanService(
	planRepo *repository.DailyPlanRepository,
	taskRepo *repository.TaskRepository,
	userRepo *repository.UserRepository,
	recent *cache.RecentPlans,
	reconciler *Reconciler,
	logger *zap.Logger,
) *PlanService {
	return &PlanService{
		planRepo:   planRepo,
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		recent:     recent,
		reconciler: reconciler,
		logger:     logger,
	}
}

// CreatePlan builds the schedule from every non-terminal task the user has
// and persists the plan.
func (s *PlanService) CreatePlan(ctx context.Context, userID uuid.UUID, input PlanInput) (*model.DailyPlan, error) {
	if err := validatePlanDate(input.PlanDate); err != nil {
		return nil, err
	}
	if err := validateEnergyLevel(input.EnergyLevel); err != nil {
		return nil, err
	}
	if err := validateAvailableHours(input.AvailableHours); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByUser(ctx, userID, nil, 0, 0)
	if err != nil {
		return nil, err
	}

	plan := model.DailyPlan{
		UserID:         userID,
		PlanDate:       input.PlanDate,
		EnergyLevel:    input.EnergyLevel,
		AvailableHours: input.AvailableHours,
		Schedule:       schedule.Build(tasks),
		CreatedAt:      time.Now().UTC(),
		Notes:          input.Notes,
	}
	if err := s.planRepo.Create(ctx, &plan); err != nil {
		return nil, err
	}

	s.pushSummary(&plan)
	return &plan, nil
}

// GetPlan returns a plan owned by the user, reconciling it first.
func (s *PlanService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*model.DailyPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	if err := s.reconciler.Reconcile(ctx, []*model.DailyPlan{plan}, time.Now()); err != nil {
		return nil, err
	}
	return plan, nil
}

// ListPlans returns the user's plans, reconciling the whole batch first.
func (s *PlanService) ListPlans(ctx context.Context, userID uuid.UUID, planDate *string, offset, limit int) ([]model.DailyPlan, error) {
	plans, err := s.planRepo.ListByUser(ctx, userID, planDate, offset, limit)
	if err != nil {
		return nil, err
	}
	batch := make([]*model.DailyPlan, len(plans))
	for i := range plans {
		batch[i] = &plans[i]
	}
	if err := s.reconciler.Reconcile(ctx, batch, time.Now()); err != nil {
		return nil, err
	}
	return plans, nil
}

// UpdatePlan applies a partial update. When the patch has no schedule, a new
// one is computed from the user's pending tasks.
func (s *PlanService) UpdatePlan(ctx context.Context, userID, planID uuid.UUID, patch PlanPatch) (*model.DailyPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.UserID != userID {
		return nil, ErrPlanNotFound
	}

	if patch.PlanDate != nil {
		if err := validatePlanDate(*patch.PlanDate); err != nil {
			return nil, err
		}
		plan.PlanDate = *patch.PlanDate
	}
	if patch.EnergyLevel != nil {
		if err := validateEnergyLevel(patch.EnergyLevel); err != nil {
			return nil, err
		}
		plan.EnergyLevel = patch.EnergyLevel
	}
	if patch.AvailableHours != nil {
		if err := validateAvailableHours(patch.AvailableHours); err != nil {
			return nil, err
		}
		plan.AvailableHours = patch.AvailableHours
	}
	if patch.Notes != nil {
		plan.Notes = patch.Notes
	}

	if patch.Schedule != nil {
		plan.Schedule = patch.Schedule
	} else {
		pending := model.StatusPending
		tasks, err := s.taskRepo.ListByUser(ctx, plan.UserID, &pending, 0, 0)
		if err != nil {
			return nil, err
		}
		plan.Schedule = schedule.Build(tasks)
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	s.pushSummary(plan)
	return plan, nil
}

// DeletePlan removes a plan owned by the user, or returns ErrPlanNotFound.
func (s *PlanService) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return err
	}
	if plan == nil || plan.UserID != userID {
		return ErrPlanNotFound
	}
	deleted, err := s.planRepo.Delete(ctx, planID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPlanNotFound
	}
	return nil
}

// UpdateEnergyLevel mutates only the energy level, bypassing schedule
// regeneration and the recency cache.
func (s *PlanService) UpdateEnergyLevel(ctx context.Context, userID, planID uuid.UUID, level int) (*model.DailyPlan, error) {
	if err := validateEnergyLevel(&level); err != nil {
		return nil, err
	}
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil || plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	plan.EnergyLevel = &level
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ReconcileToday runs a reconciliation pass over every user's plans dated
// today in that user's timezone. Used by the background sweep.
func (s *PlanService) ReconcileToday(ctx context.Context, now time.Time) error {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		user := &users[i]
		today := now.In(s.reconciler.userLocation(ctx, user.ID)).Format(model.DateLayout)
		plans, err := s.planRepo.ListByUser(ctx, user.ID, &today, 0, 0)
		if err != nil {
			return err
		}
		batch := make([]*model.DailyPlan, len(plans))
		for j := range plans {
			batch[j] = &plans[j]
		}
		if err := s.reconciler.Reconcile(ctx, batch, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *PlanService) pushSummary(plan *model.DailyPlan) {
	s.recent.Push(plan.UserID, cache.PlanSummary{
		PlanDate:       plan.PlanDate,
		EnergyLevel:    plan.EnergyLevel,
		AvailableHours: plan.AvailableHours,
		Schedule:       plan.Schedule,
		CreatedAt:      plan.CreatedAt,
		Notes:          plan.Notes,
	})
}

func validatePlanDate(raw string) error {
	if _, err := time.Parse(model.DateLayout, raw); err != nil {
		return &ValidationError{Field: "plan_date", Reason: "expected YYYY-MM-DD"}
	}
	return nil
}

func validateEnergyLevel(level *int) error {
	if level != nil && (*level < 0 || *level > 10) {
		return &ValidationError{Field: "energy_level", Reason: "must be between 0 and 10"}
	}
	return nil
}

func validateAvailableHours(hours *float64) error {
	if hours != nil && (*hours < 0 || *hours > 24) {
		return &ValidationError{Field: "available_hours", Reason: "must be between 0 and 24"}
	}
	return nil
}
