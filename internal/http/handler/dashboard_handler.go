package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nordvik-interiors/ops-api/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// @Summary Dashboard summary
// @Description Aggregate pipeline, marketing, quote, task and delivery statistics in one payload
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardSummaryDTO
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.GetSummary(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard summary", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build dashboard summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
