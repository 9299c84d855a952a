package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/http/middleware"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/internal/service"
)

type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// @Summary List quotes
// @Description List quotes with optional filters
// @Tags Quotes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (draft, sent, viewed, accepted, rejected, expired)"
// @Param clientId query string false "Filter by pipeline client ID"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.QuoteFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.QuoteStatus(s)
		filters.Status = &status
	}
	if cid := r.URL.Query().Get("clientId"); cid != "" {
		if id, err := uuid.Parse(cid); err == nil {
			filters.ClientID = &id
		}
	}

	result, err := h.quoteService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list quotes", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list quotes")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Create quote
// @Description Create a draft quote for a pipeline client
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.CreateQuoteRequest true "Quote data"
// @Success 201 {object} domain.QuoteDTO
// @Security BearerAuth
// @Router /quotes [post]
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusBadRequest, "Pipeline client not found")
			return
		}
		h.logger.Error("failed to create quote", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	w.Header().Set("Location", "/api/v1/quotes/"+quote.ID.String())
	respondJSON(w, http.StatusCreated, quote)
}

// @Summary Get quote
// @Description Get a quote by ID
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} domain.QuoteDTO
// @Security BearerAuth
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	quote, err := h.quoteService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Quote not found")
			return
		}
		h.logger.Error("failed to get quote", zap.Error(err), zap.String("quote_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary Update quote
// @Description Update a draft quote's items and totals
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param request body domain.UpdateQuoteRequest true "Quote data"
// @Success 200 {object} domain.QuoteDTO
// @Security BearerAuth
// @Router /quotes/{id} [put]
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Quote not found")
		case errors.Is(err, service.ErrQuoteNotEditable):
			respondWithError(w, http.StatusUnprocessableEntity, "Only draft quotes can be edited")
		default:
			h.logger.Error("failed to update quote", zap.Error(err), zap.String("quote_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to update quote")
		}
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary Send quote
// @Description Mark a draft quote as sent to the client
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} domain.QuoteDTO
// @Security BearerAuth
// @Router /quotes/{id}/send [post]
func (h *QuoteHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "send", h.quoteService.Send)
}

// @Summary Mark quote viewed
// @Description Mark a sent quote as viewed by the client
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} domain.QuoteDTO
// @Security BearerAuth
// @Router /quotes/{id}/viewed [post]
func (h *QuoteHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "mark viewed", h.quoteService.MarkViewed)
}

// @Summary Accept quote
// @Description Accept a quote; its total becomes the client's quote value
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} domain.QuoteDTO
// @Security BearerAuth
// @Router /quotes/{id}/accept [post]
func (h *QuoteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "accept", h.quoteService.Accept)
}

// @Summary Reject quote
// @Description Reject a quote with a loss reason
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param request body domain.RejectQuoteRequest true "Loss reason"
// @Success 200 {object} domain.QuoteDTO
// @Security BearerAuth
// @Router /quotes/{id}/reject [post]
func (h *QuoteHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.RejectQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.quoteService.Reject(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Quote not found")
		case errors.Is(err, service.ErrInvalidQuoteTransition):
			respondWithError(w, http.StatusUnprocessableEntity, "Quote cannot be rejected from its current status")
		default:
			h.logger.Error("failed to reject quote", zap.Error(err), zap.String("quote_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to reject quote")
		}
		return
	}

	middleware.RecordQuoteDecision(string(quote.Status))
	respondJSON(w, http.StatusOK, quote)
}

// lifecycle runs a body-less status transition and maps its errors.
func (h *QuoteHandler) lifecycle(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	fn func(context.Context, uuid.UUID) (*domain.QuoteDTO, error),
) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	quote, err := fn(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Quote not found")
		case errors.Is(err, service.ErrInvalidQuoteTransition):
			respondWithError(w, http.StatusUnprocessableEntity, "Quote cannot transition from its current status")
		default:
			h.logger.Error("quote transition failed",
				zap.Error(err),
				zap.String("action", action),
				zap.String("quote_id", id.String()),
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to "+action+" quote")
		}
		return
	}

	if quote.Status == domain.QuoteStatusAccepted {
		middleware.RecordQuoteDecision(string(quote.Status))
	}
	respondJSON(w, http.StatusOK, quote)
}

// @Summary Get quote stats
// @Description Get aggregate quote statistics including win rate and loss reasons
// @Tags Quotes
// @Produce json
// @Success 200 {object} domain.QuoteStatsDTO
// @Security BearerAuth
// @Router /quotes/stats [get]
func (h *QuoteHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.quoteService.GetStats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute quote stats", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute quote stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
