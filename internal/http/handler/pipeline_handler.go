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
	"github.com/nordvik-interiors/ops-api/internal/http/middleware"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/internal/service"
)

type PipelineHandler struct {
	pipelineService *service.PipelineService
	logger          *zap.Logger
}

func NewPipelineHandler(pipelineService *service.PipelineService, logger *zap.Logger) *PipelineHandler {
	return &PipelineHandler{
		pipelineService: pipelineService,
		logger:          logger,
	}
}

// @Summary List pipeline clients
// @Description List pipeline clients with optional filters
// @Tags Pipeline
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param stage query string false "Filter by stage"
// @Param priority query string false "Filter by priority (low, medium, high)"
// @Param source query string false "Filter by source"
// @Param assignedToId query string false "Filter by assignee ID"
// @Param submittedAfter query string false "Submitted after date (YYYY-MM-DD)"
// @Param minValue query number false "Minimum effective value"
// @Param maxValue query number false "Maximum effective value"
// @Param q query string false "Search by name or email"
// @Param sort query string false "Sort by (submitted_desc, submitted_asc, value_desc, value_asc, name_asc)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /pipeline/clients [get]
func (h *PipelineHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.PipelineClientFilters{}

	if s := r.URL.Query().Get("stage"); s != "" {
		stage := domain.PipelineStage(s)
		filters.Stage = &stage
	}
	if p := r.URL.Query().Get("priority"); p != "" {
		priority := domain.NormalizePriority(p)
		filters.Priority = &priority
	}
	if src := r.URL.Query().Get("source"); src != "" {
		source := domain.NormalizeSource(src)
		filters.Source = &source
	}
	if a := r.URL.Query().Get("assignedToId"); a != "" {
		if id, err := uuid.Parse(a); err == nil {
			filters.AssignedToID = &id
		}
	}
	if sa := r.URL.Query().Get("submittedAfter"); sa != "" {
		if t, err := time.Parse("2006-01-02", sa); err == nil {
			filters.SubmittedAfter = &t
		}
	}
	if minVal := r.URL.Query().Get("minValue"); minVal != "" {
		if v, err := strconv.ParseFloat(minVal, 64); err == nil {
			filters.MinValue = &v
		}
	}
	if maxVal := r.URL.Query().Get("maxValue"); maxVal != "" {
		if v, err := strconv.ParseFloat(maxVal, 64); err == nil {
			filters.MaxValue = &v
		}
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filters.SearchQuery = &q
	}

	sortBy := repository.PipelineSortBySubmittedDesc
	if s := r.URL.Query().Get("sort"); s != "" {
		sortBy = repository.PipelineSortOption(s)
	}

	result, err := h.pipelineService.List(r.Context(), page, pageSize, filters, sortBy)
	if err != nil {
		h.logger.Error("failed to list pipeline clients", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list pipeline clients")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Submit selection
// @Description Register a customer selection as a new pipeline client
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param request body domain.CreatePipelineClientRequest true "Selection data"
// @Success 201 {object} domain.PipelineClientDTO
// @Security BearerAuth
// @Router /pipeline/clients [post]
func (h *PipelineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePipelineClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.pipelineService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "This profile has already submitted a selection")
			return
		}
		h.logger.Error("failed to create pipeline client", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create pipeline client")
		return
	}

	middleware.RecordStageTransition(string(domain.StageSubmitted))
	w.Header().Set("Location", "/api/v1/pipeline/clients/"+client.ID.String())
	respondJSON(w, http.StatusCreated, client)
}

// @Summary Get pipeline client
// @Description Get a pipeline client by ID with its stage history
// @Tags Pipeline
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} ClientWithHistoryResponse
// @Security BearerAuth
// @Router /pipeline/clients/{id} [get]
func (h *PipelineHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	client, err := h.pipelineService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Pipeline client not found")
			return
		}
		h.logger.Error("failed to get pipeline client", zap.Error(err), zap.String("client_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get pipeline client")
		return
	}

	history, _ := h.pipelineService.GetStageHistory(r.Context(), id)

	respondJSON(w, http.StatusOK, ClientWithHistoryResponse{
		Client:       client,
		StageHistory: history,
	})
}

// ClientWithHistoryResponse wraps a pipeline client with its stage history
type ClientWithHistoryResponse struct {
	Client       *domain.PipelineClientDTO `json:"client"`
	StageHistory []domain.StageHistoryDTO  `json:"stageHistory"`
}

// @Summary Update pipeline client
// @Description Update contact details, priority, quote value or assignment
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body domain.UpdatePipelineClientRequest true "Client data"
// @Success 200 {object} domain.PipelineClientDTO
// @Security BearerAuth
// @Router /pipeline/clients/{id} [put]
func (h *PipelineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.UpdatePipelineClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.pipelineService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Pipeline client not found")
			return
		}
		h.logger.Error("failed to update pipeline client", zap.Error(err), zap.String("client_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update pipeline client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// @Summary Get pipeline board
// @Description Get the kanban board: funnel columns with cards and per-column totals
// @Tags Pipeline
// @Produce json
// @Success 200 {object} domain.BoardDTO
// @Security BearerAuth
// @Router /pipeline/board [get]
func (h *PipelineHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.pipelineService.GetBoard(r.Context())
	if err != nil {
		h.logger.Error("failed to build pipeline board", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build pipeline board")
		return
	}

	respondJSON(w, http.StatusOK, board)
}

// @Summary Move pipeline client
// @Description Resolve a board drop: move a client to the stage of a column or of another card
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body domain.MoveStageRequest true "Drop target"
// @Success 200 {object} domain.PipelineClientDTO
// @Security BearerAuth
// @Router /pipeline/clients/{id}/move [post]
func (h *PipelineHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.MoveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	client, err := h.pipelineService.MoveStage(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Pipeline client not found")
		case errors.Is(err, service.ErrInvalidStage):
			respondWithError(w, http.StatusBadRequest, "Invalid target stage")
		case errors.Is(err, service.ErrInvalidTransition):
			respondWithError(w, http.StatusUnprocessableEntity, "Cards cannot be dropped into the lost column")
		case errors.Is(err, service.ErrTerminalStage):
			respondWithError(w, http.StatusUnprocessableEntity, "Lost clients cannot be moved")
		default:
			h.logger.Error("failed to move pipeline client", zap.Error(err), zap.String("client_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to move pipeline client")
		}
		return
	}

	middleware.RecordStageTransition(string(client.Stage))
	respondJSON(w, http.StatusOK, client)
}

// @Summary Advance pipeline client
// @Description Advance a client to the next stage in the funnel
// @Tags Pipeline
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.PipelineClientDTO
// @Security BearerAuth
// @Router /pipeline/clients/{id}/advance [post]
func (h *PipelineHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	client, err := h.pipelineService.AdvanceStage(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Pipeline client not found")
		case errors.Is(err, service.ErrTerminalStage):
			respondWithError(w, http.StatusUnprocessableEntity, "Client is already in a terminal stage")
		default:
			h.logger.Error("failed to advance pipeline client", zap.Error(err), zap.String("client_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to advance pipeline client")
		}
		return
	}

	middleware.RecordStageTransition(string(client.Stage))
	respondJSON(w, http.StatusOK, client)
}

// @Summary Mark pipeline client lost
// @Description Mark a client as lost with a reason
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body domain.MarkLostRequest true "Loss reason"
// @Success 200 {object} domain.PipelineClientDTO
// @Security BearerAuth
// @Router /pipeline/clients/{id}/lost [post]
func (h *PipelineHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.MarkLostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.pipelineService.MarkLost(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Pipeline client not found")
		case errors.Is(err, service.ErrTerminalStage):
			respondWithError(w, http.StatusUnprocessableEntity, "Client is already in a terminal stage")
		default:
			h.logger.Error("failed to mark pipeline client lost", zap.Error(err), zap.String("client_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to mark pipeline client lost")
		}
		return
	}

	middleware.RecordStageTransition(string(client.Stage))
	respondJSON(w, http.StatusOK, client)
}

// @Summary Record payment
// @Description Record a milestone payment for a pipeline client
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body domain.RecordPaymentRequest true "Payment data"
// @Success 200 {object} domain.PipelineClientDTO
// @Security BearerAuth
// @Router /pipeline/clients/{id}/payments [post]
func (h *PipelineHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.pipelineService.RecordPayment(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Pipeline client not found")
			return
		}
		h.logger.Error("failed to record payment", zap.Error(err), zap.String("client_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// @Summary Get stage history
// @Description Get the stage transition history for a pipeline client
// @Tags Pipeline
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {array} domain.StageHistoryDTO
// @Security BearerAuth
// @Router /pipeline/clients/{id}/history [get]
func (h *PipelineHandler) GetStageHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	history, err := h.pipelineService.GetStageHistory(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Pipeline client not found")
			return
		}
		h.logger.Error("failed to get stage history", zap.Error(err), zap.String("client_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get stage history")
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// @Summary Get pipeline stats
// @Description Get aggregate pipeline statistics
// @Tags Pipeline
// @Produce json
// @Success 200 {object} domain.PipelineStatsDTO
// @Security BearerAuth
// @Router /pipeline/stats [get]
func (h *PipelineHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.pipelineService.GetStats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute pipeline stats", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute pipeline stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
