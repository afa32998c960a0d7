package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ar2745/cognitive-daily/internal/cache"
	"github.com/ar2745/cognitive-daily/internal/model"
)

// planSystemPrompt is the system instruction sent to the primary provider.
const planSystemPrompt = "You are a helpful daily planning assistant."

// PrimaryProvider is the preferred generative provider.
type PrimaryProvider interface {
	Complete(ctx context.Context, prompt, system string) (string, error)
}

// FallbackProvider is the independently configured local provider used when
// the primary fails.
type FallbackProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerateResponse is the structured result of an AI plan generation. The
// raw provider text is always preserved for diagnostics.
type GenerateResponse struct {
	Schedule    map[string]any `json:"schedule"`
	Notes       *string        `json:"notes,omitempty"`
	RawResponse string         `json:"raw_response"`
}

// TaskAnalysisRequest mirrors the ai-analyze-tasks request payload.
type TaskAnalysisRequest struct {
	PlanDate       string         `json:"plan_date"`
	EnergyLevel    *int           `json:"energy_level,omitempty"`
	AvailableHours *float64       `json:"available_hours,omitempty"`
	Preferences    map[string]any `json:"preferences,omitempty"`
}

// TaskAnalysisResponse is the structured result of an AI task analysis.
type TaskAnalysisResponse struct {
	OptimizedTasks []map[string]any `json:"optimized_tasks"`
	Suggestions    []string         `json:"suggestions"`
	RawResponse    string           `json:"raw_response"`
}

// AIService orchestrates plan generation across a primary provider and a
// local fallback. A fallback success is still reported as degraded; callers
// decide how to surface that.
type AIService struct {
	primary  PrimaryProvider
	fallback FallbackProvider
	recent   *cache.RecentPlans
	logger   *zap.Logger
	now      func() time.Time
}

func NewAIService(primary PrimaryProvider, fallback FallbackProvider, recent *cache.RecentPlans, logger *zap.Logger) *AIService {
	return &AIService{
		primary:  primary,
		fallback: fallback,
		recent:   recent,
		logger:   logger,
		now:      time.Now,
	}
}

// GeneratePlan builds a scenario prompt from the user's profile, the request,
// and recent-plan history, then completes it. When only the fallback
// succeeded, the parsed result is returned together with a *DegradedError.
func (s *AIService) GeneratePlan(ctx context.Context, user *model.User, req GenerateRequest) (*GenerateResponse, error) {
	recentPlans := s.recent.Recent(user.ID)
	pc := BuildContext(user, req, recentPlans, s.now().Format("15:04"))
	prompt := BuildPrompt(pc)
	s.logger.Info("ai plan generation requested",
		zap.String("user_id", user.ID.String()), zap.String("scenario", pc.Scenario))

	raw, degraded, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	resp := parsePlanResponse(raw)
	if degraded != nil {
		return resp, degraded
	}
	return resp, nil
}

// AnalyzeTasks asks the provider to prioritize and time-box the given tasks.
// Completed tasks are filtered out; only titles are sent.
func (s *AIService) AnalyzeTasks(ctx context.Context, user *model.User, req TaskAnalysisRequest, tasks []model.Task) (*TaskAnalysisResponse, error) {
	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == model.StatusCompleted {
			continue
		}
		titles = append(titles, task.Title)
	}
	prompt := BuildTaskAnalysisPrompt(req.PlanDate, req.EnergyLevel, req.AvailableHours, req.Preferences, titles)
	s.logger.Info("ai task analysis requested",
		zap.String("user_id", user.ID.String()), zap.Int("tasks", len(titles)))

	raw, degraded, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	resp := parseTaskAnalysisResponse(raw)
	if degraded != nil {
		return resp, degraded
	}
	return resp, nil
}

// complete tries the primary provider, then the fallback with the same
// prompt. A fallback success returns the text plus a degraded signal; a
// fallback failure is terminal.
func (s *AIService) complete(ctx context.Context, prompt string) (string, *DegradedError, error) {
	raw, err := s.primary.Complete(ctx, prompt, planSystemPrompt)
	if err == nil {
		return raw, nil, nil
	}
	s.logger.Warn("primary provider failed, falling back", zap.Error(err))

	raw, fallbackErr := s.fallback.Generate(ctx, prompt)
	if fallbackErr != nil {
		s.logger.Error("fallback provider failed", zap.Error(fallbackErr))
		return "", nil, &UnavailableError{Cause: fallbackErr}
	}
	return raw, &DegradedError{Cause: err}, nil
}
