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

type MarketingHandler struct {
	marketingService *service.MarketingService
	logger           *zap.Logger
}

func NewMarketingHandler(marketingService *service.MarketingService, logger *zap.Logger) *MarketingHandler {
	return &MarketingHandler{
		marketingService: marketingService,
		logger:           logger,
	}
}

// @Summary List marketing leads
// @Description List marketing leads (prospects without a submitted selection)
// @Tags Marketing
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param interest query string false "Filter by interest level (hot, warm, cold)"
// @Param status query string false "Filter by status"
// @Param source query string false "Filter by source"
// @Param inactiveSince query string false "Only leads with no activity since date (YYYY-MM-DD)"
// @Param q query string false "Search by name or email"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /marketing/leads [get]
func (h *MarketingHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.MarketingLeadFilters{}

	if i := r.URL.Query().Get("interest"); i != "" {
		interest := domain.NormalizeInterest(i)
		filters.Interest = &interest
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.NormalizeMarketingStatus(s)
		filters.Status = &status
	}
	if src := r.URL.Query().Get("source"); src != "" {
		source := domain.NormalizeSource(src)
		filters.Source = &source
	}
	if is := r.URL.Query().Get("inactiveSince"); is != "" {
		if t, err := time.Parse("2006-01-02", is); err == nil {
			filters.InactiveSince = &t
		}
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filters.SearchQuery = &q
	}

	result, err := h.marketingService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list marketing leads", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list marketing leads")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Register marketing lead
// @Description Register a new marketing lead
// @Tags Marketing
// @Accept json
// @Produce json
// @Param request body domain.RegisterLeadRequest true "Lead data"
// @Success 201 {object} domain.MarketingLeadDTO
// @Security BearerAuth
// @Router /marketing/leads [post]
func (h *MarketingHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.marketingService.Register(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to register marketing lead", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to register marketing lead")
		return
	}

	w.Header().Set("Location", "/api/v1/marketing/leads/"+lead.ID.String())
	respondJSON(w, http.StatusCreated, lead)
}

// @Summary Get marketing lead
// @Description Get a marketing lead by ID with its outreach history
// @Tags Marketing
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} LeadWithOutreachResponse
// @Security BearerAuth
// @Router /marketing/leads/{id} [get]
func (h *MarketingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	lead, err := h.marketingService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Marketing lead not found")
			return
		}
		h.logger.Error("failed to get marketing lead", zap.Error(err), zap.String("lead_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get marketing lead")
		return
	}

	outreaches, _ := h.marketingService.GetOutreachHistory(r.Context(), id)

	respondJSON(w, http.StatusOK, LeadWithOutreachResponse{
		Lead:       lead,
		Outreaches: outreaches,
	})
}

// LeadWithOutreachResponse wraps a marketing lead with its outreach log
type LeadWithOutreachResponse struct {
	Lead       *domain.MarketingLeadDTO `json:"lead"`
	Outreaches []domain.OutreachDTO     `json:"outreaches"`
}

// @Summary Update interest level
// @Description Update a marketing lead's interest level
// @Tags Marketing
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body domain.UpdateInterestRequest true "Interest level"
// @Success 200 {object} domain.MarketingLeadDTO
// @Security BearerAuth
// @Router /marketing/leads/{id}/interest [patch]
func (h *MarketingHandler) UpdateInterest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	var req domain.UpdateInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.marketingService.UpdateInterest(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Marketing lead not found")
			return
		}
		h.logger.Error("failed to update interest", zap.Error(err), zap.String("lead_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update interest")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// @Summary Log outreach
// @Description Log a contact attempt for a lead, optionally dispatching a follow-up email
// @Tags Marketing
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body domain.LogOutreachRequest true "Outreach data"
// @Success 201 {object} domain.OutreachDTO
// @Security BearerAuth
// @Router /marketing/leads/{id}/outreach [post]
func (h *MarketingHandler) LogOutreach(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	var req domain.LogOutreachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	outreach, err := h.marketingService.LogOutreach(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Marketing lead not found")
			return
		}
		h.logger.Error("failed to log outreach", zap.Error(err), zap.String("lead_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to log outreach")
		return
	}

	respondJSON(w, http.StatusCreated, outreach)
}

// @Summary Get outreach history
// @Description Get the logged contact attempts for a lead
// @Tags Marketing
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {array} domain.OutreachDTO
// @Security BearerAuth
// @Router /marketing/leads/{id}/outreach [get]
func (h *MarketingHandler) GetOutreachHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	outreaches, err := h.marketingService.GetOutreachHistory(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Marketing lead not found")
			return
		}
		h.logger.Error("failed to get outreach history", zap.Error(err), zap.String("lead_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get outreach history")
		return
	}

	respondJSON(w, http.StatusOK, outreaches)
}

// @Summary Convert lead
// @Description Convert a marketing lead into a pipeline client with a submitted selection
// @Tags Marketing
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body domain.ConvertLeadRequest true "Selection data"
// @Success 201 {object} domain.PipelineClientDTO
// @Security BearerAuth
// @Router /marketing/leads/{id}/convert [post]
func (h *MarketingHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead ID: must be a valid UUID")
		return
	}

	var req domain.ConvertLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	client, err := h.marketingService.ConvertLead(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Marketing lead not found")
		case errors.Is(err, service.ErrAlreadySubmitted):
			respondWithError(w, http.StatusConflict, "This lead has already submitted a selection")
		default:
			h.logger.Error("failed to convert marketing lead", zap.Error(err), zap.String("lead_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to convert marketing lead")
		}
		return
	}

	w.Header().Set("Location", "/api/v1/pipeline/clients/"+client.ID.String())
	respondJSON(w, http.StatusCreated, client)
}

// @Summary Get marketing stats
// @Description Get aggregate marketing lead statistics
// @Tags Marketing
// @Produce json
// @Success 200 {object} domain.MarketingStatsDTO
// @Security BearerAuth
// @Router /marketing/stats [get]
func (h *MarketingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.marketingService.GetStats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute marketing stats", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute marketing stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
