package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// @Summary List tasks
// @Description List tasks with optional filters
// @Tags Tasks
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (pending, in_progress, completed, cancelled)"
// @Param priority query string false "Filter by priority (low, medium, high)"
// @Param assignedToId query string false "Filter by assignee ID"
// @Param clientId query string false "Filter by pipeline client ID"
// @Param dueBefore query string false "Due before date (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.TaskFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.TaskStatus(s)
		filters.Status = &status
	}
	if p := r.URL.Query().Get("priority"); p != "" {
		priority := domain.NormalizeTaskPriority(p)
		filters.Priority = &priority
	}
	if a := r.URL.Query().Get("assignedToId"); a != "" {
		if id, err := uuid.Parse(a); err == nil {
			filters.AssignedToID = &id
		}
	}
	if cid := r.URL.Query().Get("clientId"); cid != "" {
		if id, err := uuid.Parse(cid); err == nil {
			filters.ClientID = &id
		}
	}
	if db := r.URL.Query().Get("dueBefore"); db != "" {
		if t, err := time.Parse("2006-01-02", db); err == nil {
			filters.DueBefore = &t
		}
	}

	result, err := h.taskService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list tasks", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Create task
// @Description Create a task, optionally linked to a client, order, quote or delivery
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body domain.CreateTaskRequest true "Task data"
// @Success 201 {object} domain.TaskDTO
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserInactive) {
			respondWithError(w, http.StatusBadRequest, "Assignee is not an active team member")
			return
		}
		h.logger.Error("failed to create task", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	w.Header().Set("Location", "/api/v1/tasks/"+task.ID.String())
	respondJSON(w, http.StatusCreated, task)
}

// @Summary Get task
// @Description Get a task by ID
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} domain.TaskDTO
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	task, err := h.taskService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("failed to get task", zap.Error(err), zap.String("task_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// @Summary Update task
// @Description Update a task's details, status, priority or assignment
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body domain.UpdateTaskRequest true "Task data"
// @Success 200 {object} domain.TaskDTO
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	var req domain.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Task not found")
		case errors.Is(err, service.ErrUserInactive):
			respondWithError(w, http.StatusBadRequest, "Assignee is not an active team member")
		default:
			h.logger.Error("failed to update task", zap.Error(err), zap.String("task_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to update task")
		}
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// @Summary Complete task
// @Description Mark a task as completed
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} domain.TaskDTO
// @Security BearerAuth
// @Router /tasks/{id}/complete [post]
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	task, err := h.taskService.Complete(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("failed to complete task", zap.Error(err), zap.String("task_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to complete task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// @Summary Delete task
// @Description Delete a task
// @Tags Tasks
// @Param id path string true "Task ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("failed to delete task", zap.Error(err), zap.String("task_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
