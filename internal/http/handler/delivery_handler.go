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

type DeliveryHandler struct {
	deliveryService *service.DeliveryService
	logger          *zap.Logger
}

func NewDeliveryHandler(deliveryService *service.DeliveryService, logger *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
		logger:          logger,
	}
}

// @Summary List deliveries
// @Description List deliveries with optional filters
// @Tags Deliveries
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status"
// @Param orderId query string false "Filter by order ID"
// @Param scheduledFrom query string false "Scheduled on or after date (YYYY-MM-DD)"
// @Param scheduledTo query string false "Scheduled before date (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /deliveries [get]
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.DeliveryFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.NormalizeDeliveryStatus(s)
		filters.Status = &status
	}
	if oid := r.URL.Query().Get("orderId"); oid != "" {
		if id, err := uuid.Parse(oid); err == nil {
			filters.OrderID = &id
		}
	}
	if sf := r.URL.Query().Get("scheduledFrom"); sf != "" {
		if t, err := time.Parse("2006-01-02", sf); err == nil {
			filters.ScheduledFrom = &t
		}
	}
	if st := r.URL.Query().Get("scheduledTo"); st != "" {
		if t, err := time.Parse("2006-01-02", st); err == nil {
			filters.ScheduledTo = &t
		}
	}

	result, err := h.deliveryService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list deliveries", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list deliveries")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Schedule delivery
// @Description Schedule a delivery for an order
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param request body domain.ScheduleDeliveryRequest true "Delivery data"
// @Success 201 {object} domain.DeliveryDTO
// @Security BearerAuth
// @Router /deliveries [post]
func (h *DeliveryHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req domain.ScheduleDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	delivery, err := h.deliveryService.Schedule(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusBadRequest, "Order not found")
		case errors.Is(err, service.ErrUserInactive):
			respondWithError(w, http.StatusBadRequest, "Driver is not an active team member")
		default:
			h.logger.Error("failed to schedule delivery", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to schedule delivery")
		}
		return
	}

	w.Header().Set("Location", "/api/v1/deliveries/"+delivery.ID.String())
	respondJSON(w, http.StatusCreated, delivery)
}

// @Summary Get delivery
// @Description Get a delivery by ID
// @Tags Deliveries
// @Produce json
// @Param id path string true "Delivery ID"
// @Success 200 {object} domain.DeliveryDTO
// @Security BearerAuth
// @Router /deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid delivery ID: must be a valid UUID")
		return
	}

	delivery, err := h.deliveryService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Delivery not found")
			return
		}
		h.logger.Error("failed to get delivery", zap.Error(err), zap.String("delivery_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get delivery")
		return
	}

	respondJSON(w, http.StatusOK, delivery)
}

// @Summary Update delivery status
// @Description Move a delivery through its statuses; failures notify operations
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param id path string true "Delivery ID"
// @Param request body domain.UpdateDeliveryStatusRequest true "New status"
// @Success 200 {object} domain.DeliveryDTO
// @Security BearerAuth
// @Router /deliveries/{id}/status [patch]
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid delivery ID: must be a valid UUID")
		return
	}

	var req domain.UpdateDeliveryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	delivery, err := h.deliveryService.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Delivery not found")
		case errors.Is(err, service.ErrInvalidTransition):
			respondWithError(w, http.StatusUnprocessableEntity, "Delivered deliveries cannot change status")
		default:
			h.logger.Error("failed to update delivery status", zap.Error(err), zap.String("delivery_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to update delivery status")
		}
		return
	}

	if delivery.Status == domain.DeliveryStatusFailed {
		middleware.RecordDeliveryFailure()
	}
	respondJSON(w, http.StatusOK, delivery)
}
