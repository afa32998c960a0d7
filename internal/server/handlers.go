package server

import (
	"net/http"
	"strconv"

	"github.com/ar2745/cognitive-daily/internal/model"
	"github.com/ar2745/cognitive-daily/internal/service"
)

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var input service.TaskInput
	if !decodeJSON(w, r, &input) {
		return
	}
	task, err := s.tasks.CreateTask(r.Context(), userID, input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var status *model.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed := model.TaskStatus(raw)
		if !parsed.Valid() {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid status: unknown status")
			return
		}
		status = &parsed
	}
	offset, limit := pagination(r)
	tasks, err := s.tasks.ListTasks(r.Context(), userID, status, offset, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, service.ErrTaskNotFound.Error())
	if !ok {
		return
	}
	task, err := s.tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, service.ErrTaskNotFound.Error())
	if !ok {
		return
	}
	var patch service.TaskPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	task, err := s.tasks.UpdateTask(r.Context(), userID, taskID, patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, service.ErrTaskNotFound.Error())
	if !ok {
		return
	}
	if err := s.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var input service.PlanInput
	if !decodeJSON(w, r, &input) {
		return
	}
	plan, err := s.plans.CreatePlan(r.Context(), userID, input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var planDate *string
	if raw := r.URL.Query().Get("plan_date"); raw != "" {
		planDate = &raw
	}
	offset, limit := pagination(r)
	plans, err := s.plans.ListPlans(r.Context(), userID, planDate, offset, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	planID, ok := pathID(w, r, service.ErrPlanNotFound.Error())
	if !ok {
		return
	}
	plan, err := s.plans.GetPlan(r.Context(), userID, planID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	planID, ok := pathID(w, r, service.ErrPlanNotFound.Error())
	if !ok {
		return
	}
	var patch service.PlanPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	plan, err := s.plans.UpdatePlan(r.Context(), userID, planID, patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	planID, ok := pathID(w, r, service.ErrPlanNotFound.Error())
	if !ok {
		return
	}
	if err := s.plans.DeletePlan(r.Context(), userID, planID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateEnergyLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	planID, ok := pathID(w, r, service.ErrPlanNotFound.Error())
	if !ok {
		return
	}
	var body struct {
		EnergyLevel int `json:"energy_level"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	plan, err := s.plans.UpdateEnergyLevel(r.Context(), userID, planID, body.EnergyLevel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleAIGenerate(w http.ResponseWriter, r *http.Request) {
	user, ok := s.profileFor(w, r)
	if !ok {
		return
	}
	var req service.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.ai.GeneratePlan(r.Context(), user, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAIAnalyzeTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := s.profileFor(w, r)
	if !ok {
		return
	}
	var req service.TaskAnalysisRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tasks, err := s.tasks.ListTasks(r.Context(), user.ID, nil, 0, 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.ai.AnalyzeTasks(r.Context(), user, req, tasks)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func pagination(r *http.Request) (offset, limit int) {
	offset = queryInt(r, "skip", 0)
	limit = queryInt(r, "limit", 20)
	return offset, limit
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
