package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/export"
	"github.com/nordvik-interiors/ops-api/internal/repository"
)

type ExportHandler struct {
	exporter *export.Exporter
	logger   *zap.Logger
}

func NewExportHandler(exporter *export.Exporter, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exporter: exporter,
		logger:   logger,
	}
}

func (h *ExportHandler) writeCSVHeaders(w http.ResponseWriter, entity string) {
	filename := fmt.Sprintf("%s-%s.csv", entity, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

// @Summary Export pipeline clients
// @Description Stream the filtered pipeline client list as CSV
// @Tags Export
// @Produce text/csv
// @Param stage query string false "Filter by stage"
// @Param priority query string false "Filter by priority"
// @Param assignedToId query string false "Filter by assignee ID"
// @Success 200 {string} string "CSV data"
// @Security BearerAuth
// @Router /export/pipeline.csv [get]
func (h *ExportHandler) PipelineClients(w http.ResponseWriter, r *http.Request) {
	filters := &repository.PipelineClientFilters{}
	if s := r.URL.Query().Get("stage"); s != "" {
		stage := domain.PipelineStage(s)
		filters.Stage = &stage
	}
	if p := r.URL.Query().Get("priority"); p != "" {
		priority := domain.NormalizePriority(p)
		filters.Priority = &priority
	}
	if a := r.URL.Query().Get("assignedToId"); a != "" {
		if id, err := uuid.Parse(a); err == nil {
			filters.AssignedToID = &id
		}
	}

	h.writeCSVHeaders(w, "pipeline")
	if err := h.exporter.WritePipelineClients(r.Context(), w, filters); err != nil {
		h.logger.Error("pipeline export failed", zap.Error(err))
	}
}

// @Summary Export marketing leads
// @Description Stream the filtered marketing lead list as CSV
// @Tags Export
// @Produce text/csv
// @Param interest query string false "Filter by interest level"
// @Param status query string false "Filter by status"
// @Success 200 {string} string "CSV data"
// @Security BearerAuth
// @Router /export/leads.csv [get]
func (h *ExportHandler) MarketingLeads(w http.ResponseWriter, r *http.Request) {
	filters := &repository.MarketingLeadFilters{}
	if i := r.URL.Query().Get("interest"); i != "" {
		interest := domain.NormalizeInterest(i)
		filters.Interest = &interest
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.NormalizeMarketingStatus(s)
		filters.Status = &status
	}

	h.writeCSVHeaders(w, "leads")
	if err := h.exporter.WriteMarketingLeads(r.Context(), w, filters); err != nil {
		h.logger.Error("lead export failed", zap.Error(err))
	}
}

// @Summary Export quotes
// @Description Stream the filtered quote list as CSV
// @Tags Export
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Param clientId query string false "Filter by pipeline client ID"
// @Success 200 {string} string "CSV data"
// @Security BearerAuth
// @Router /export/quotes.csv [get]
func (h *ExportHandler) Quotes(w http.ResponseWriter, r *http.Request) {
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

	h.writeCSVHeaders(w, "quotes")
	if err := h.exporter.WriteQuotes(r.Context(), w, filters); err != nil {
		h.logger.Error("quote export failed", zap.Error(err))
	}
}

// @Summary Export orders
// @Description Stream the filtered order list as CSV
// @Tags Export
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Success 200 {string} string "CSV data"
// @Security BearerAuth
// @Router /export/orders.csv [get]
func (h *ExportHandler) Orders(w http.ResponseWriter, r *http.Request) {
	filters := &repository.OrderFilters{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.NormalizeOrderStatus(s)
		filters.Status = &status
	}

	h.writeCSVHeaders(w, "orders")
	if err := h.exporter.WriteOrders(r.Context(), w, filters); err != nil {
		h.logger.Error("order export failed", zap.Error(err))
	}
}

// @Summary Export deliveries
// @Description Stream the filtered delivery list as CSV
// @Tags Export
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Success 200 {string} string "CSV data"
// @Security BearerAuth
// @Router /export/deliveries.csv [get]
func (h *ExportHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	filters := &repository.DeliveryFilters{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.NormalizeDeliveryStatus(s)
		filters.Status = &status
	}

	h.writeCSVHeaders(w, "deliveries")
	if err := h.exporter.WriteDeliveries(r.Context(), w, filters); err != nil {
		h.logger.Error("delivery export failed", zap.Error(err))
	}
}
