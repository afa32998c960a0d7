package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ar2745/cognitive-daily/internal/model"
)

// DailyPlanRepository handles CRUD for daily plans.
type DailyPlanRepository struct {
	db *gorm.DB
}

func NewDailyPlanRepository(db *gorm.DB) *DailyPlanRepository {
	return &DailyPlanRepository{db: db}
}

func (r *DailyPlanRepository) Create(ctx context.Context, plan *model.DailyPlan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("create daily plan: %w", err)
	}
	return nil
}

// FindByID returns the plan, or nil when no row exists.
func (r *DailyPlanRepository) FindByID(ctx context.Context, planID uuid.UUID) (*model.DailyPlan, error) {
	var plan model.DailyPlan
	err := r.db.WithContext(ctx).Where("id = ?", planID).First(&plan).Error
	switch {
	case err == nil:
		return &plan, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find daily plan: %w", err)
	}
}

// ListByUser returns a user's plans, optionally filtered to an exact plan
// date, newest first. A limit of 0 means no limit.
func (r *DailyPlanRepository) ListByUser(ctx context.Context, userID uuid.UUID, planDate *string, offset, limit int) ([]model.DailyPlan, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if planDate != nil {
		query = query.Where("plan_date = ?", *planDate)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var plans []model.DailyPlan
	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list daily plans: %w", err)
	}
	return plans, nil
}

// Save persists every field of the plan.
func (r *DailyPlanRepository) Save(ctx context.Context, plan *model.DailyPlan) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("save daily plan: %w", err)
	}
	return nil
}

// Delete removes a plan and reports whether a row existed.
func (r *DailyPlanRepository) Delete(ctx context.Context, planID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", planID).Delete(&model.DailyPlan{})
	if result.Error != nil {
		return false, fmt.Errorf("delete daily plan: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
