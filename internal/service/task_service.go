package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ar2745/cognitive-daily/internal/model"
	"github.com/ar2745/cognitive-daily/internal/repository"
)

// TaskInput represents data required to create a task. Status comes from the
// caller and is not defaulted server-side.
type TaskInput struct {
	Title         string             `json:"title"`
	Duration      int                `json:"duration"`
	Priority      model.TaskPriority `json:"priority"`
	Tags          []string           `json:"tags"`
	PreferredTime *model.TimeOfDay   `json:"preferred_time,omitempty"`
	Status        model.TaskStatus   `json:"status"`
}

// TaskPatch carries a partial task update; nil fields are left unchanged.
type TaskPatch struct {
	Title         *string             `json:"title,omitempty"`
	Duration      *int                `json:"duration,omitempty"`
	Priority      *model.TaskPriority `json:"priority,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	PreferredTime *model.TimeOfDay    `json:"preferred_time,omitempty"`
	Status        *model.TaskStatus   `json:"status,omitempty"`
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if input.Duration < 0 {
		return nil, &ValidationError{Field: "duration", Reason: "must not be negative"}
	}
	if !input.Priority.Valid() {
		return nil, &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
	if !input.Status.Valid() {
		return nil, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	task := model.Task{
		UserID:        userID,
		Title:         input.Title,
		Duration:      input.Duration,
		Priority:      input.Priority,
		Tags:          input.Tags,
		PreferredTime: input.PreferredTime,
		Status:        input.Status,
		CreatedAt:     time.Now().UTC(),
	}
	if task.Status == model.StatusCompleted {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask returns a task owned by the user, or ErrTaskNotFound.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.UserID != userID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// ListTasks returns the user's tasks, optionally filtered to an exact status.
func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, status *model.TaskStatus, offset, limit int) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, userID, status, offset, limit)
}

// UpdateTask applies a partial update. A transition into completed stamps
// completed_at; leaving completed clears it.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, patch TaskPatch) (*model.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		task.Title = *patch.Title
	}
	if patch.Duration != nil {
		if *patch.Duration < 0 {
			return nil, &ValidationError{Field: "duration", Reason: "must not be negative"}
		}
		task.Duration = *patch.Duration
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
		}
		task.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		task.Tags = patch.Tags
	}
	if patch.PreferredTime != nil {
		task.PreferredTime = patch.PreferredTime
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, &ValidationError{Field: "status", Reason: "unknown status"}
		}
		previous := task.Status
		task.Status = *patch.Status
		switch {
		case task.Status == model.StatusCompleted && previous != model.StatusCompleted:
			now := time.Now().UTC()
			task.CompletedAt = &now
		case task.Status != model.StatusCompleted && previous == model.StatusCompleted:
			task.CompletedAt = nil
		}
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task owned by the user, or returns ErrTaskNotFound.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return err
	}
	deleted, err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}
