// Package server exposes the planning core over HTTP. It stays thin: JSON
// marshalling, identity resolution, and error-to-status mapping only.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ar2745/cognitive-daily/internal/model"
	"github.com/ar2745/cognitive-daily/internal/repository"
	"github.com/ar2745/cognitive-daily/internal/service"
)

// Identity resolves the authenticated user for a request. Token issuance and
// verification live outside this service; deployments inject their own
// resolver at wiring time.
type Identity func(r *http.Request) (uuid.UUID, error)

// BearerUUIDIdentity treats the bearer token as an opaque user id already
// verified upstream. It stands in for a real verifier.
func BearerUUIDIdentity(r *http.Request) (uuid.UUID, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return uuid.Nil, errors.New("missing bearer token")
	}
	id, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return uuid.Nil, errors.New("malformed bearer token")
	}
	return id, nil
}

// Server wires the HTTP surface to the planning services.
type Server struct {
	tasks    *service.TaskService
	plans    *service.PlanService
	ai       *service.AIService
	users    *repository.UserRepository
	identity Identity
	logger   *zap.Logger
}

func New(tasks *service.TaskService, plans *service.PlanService, ai *service.AIService, users *repository.UserRepository, identity Identity, logger *zap.Logger) *Server {
	return &Server{
		tasks:    tasks,
		plans:    plans,
		ai:       ai,
		users:    users,
		identity: identity,
		logger:   logger,
	}
}

// Routes registers every handler on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/v1/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/v1/tasks", s.handleListTasks)
	mux.HandleFunc("GET /api/v1/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PUT /api/v1/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/v1/tasks/{id}", s.handleDeleteTask)

	mux.HandleFunc("POST /api/v1/daily-plans", s.handleCreatePlan)
	mux.HandleFunc("GET /api/v1/daily-plans", s.handleListPlans)
	mux.HandleFunc("GET /api/v1/daily-plans/{id}", s.handleGetPlan)
	mux.HandleFunc("PUT /api/v1/daily-plans/{id}", s.handleUpdatePlan)
	mux.HandleFunc("DELETE /api/v1/daily-plans/{id}", s.handleDeletePlan)
	mux.HandleFunc("PATCH /api/v1/daily-plans/{id}/energy-level", s.handleUpdateEnergyLevel)

	mux.HandleFunc("POST /api/v1/daily-plans/ai-generate", s.handleAIGenerate)
	mux.HandleFunc("POST /api/v1/daily-plans/ai-analyze-tasks", s.handleAIAnalyzeTasks)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// currentUser resolves identity or writes a 401.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := s.identity(r)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, err.Error())
		return uuid.Nil, false
	}
	return userID, true
}

// profileFor resolves identity and loads the full user profile, which the AI
// paths need for preferences and timezone.
func (s *Server) profileFor(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return nil, false
	}
	user, err := s.users.FindByID(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	if user == nil {
		writeDetail(w, http.StatusNotFound, service.ErrUserNotFound.Error())
		return nil, false
	}
	return user, true
}

// pathID parses the {id} path segment or writes a 404. An unparseable id is
// indistinguishable from a missing resource.
func pathID(w http.ResponseWriter, r *http.Request, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, notFound)
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "malformed request body: "+err.Error())
		return false
	}
	return true
}

// writeError maps service errors onto HTTP statuses. A degraded AI result is
// deliberately reported as unavailable so clients never consume
// possibly-lower-quality output unaware.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var validation *service.ValidationError
	switch {
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrUserNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		writeDetail(w, http.StatusUnprocessableEntity, validation.Error())
	case service.IsDegraded(err), service.IsUnavailable(err):
		writeDetail(w, http.StatusServiceUnavailable, "AI plan generation unavailable")
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
