package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/repository"
)

const timeFormat = "2006-01-02 15:04"

// Exporter streams collections as CSV for spreadsheet handoff
type Exporter struct {
	clientRepo   *repository.PipelineClientRepository
	leadRepo     *repository.MarketingLeadRepository
	quoteRepo    *repository.QuoteRepository
	orderRepo    *repository.OrderRepository
	deliveryRepo *repository.DeliveryRepository
}

func NewExporter(
	clientRepo *repository.PipelineClientRepository,
	leadRepo *repository.MarketingLeadRepository,
	quoteRepo *repository.QuoteRepository,
	orderRepo *repository.OrderRepository,
	deliveryRepo *repository.DeliveryRepository,
) *Exporter {
	return &Exporter{
		clientRepo:   clientRepo,
		leadRepo:     leadRepo,
		quoteRepo:    quoteRepo,
		orderRepo:    orderRepo,
		deliveryRepo: deliveryRepo,
	}
}

// WritePipelineClients exports the pipeline, one row per client
func (e *Exporter) WritePipelineClients(ctx context.Context, w io.Writer, filters *repository.PipelineClientFilters) error {
	clients, err := e.clientRepo.GetAll(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to load pipeline clients: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Name", "Email", "Phone", "Stage", "Priority", "Source",
		"Selection Value", "Quote Value", "Total Paid", "Total Due",
		"Assigned To", "Submitted At",
	}); err != nil {
		return err
	}

	for _, client := range clients {
		paid := client.DepositPaid + client.ProductionPaid + client.FinalPaid
		quoteValue := ""
		if client.QuoteValue != nil {
			quoteValue = formatAmount(*client.QuoteValue)
		}
		row := []string{
			client.Name,
			client.Email,
			client.Phone,
			string(client.Stage),
			string(client.Priority),
			string(client.Source),
			formatAmount(client.SelectionValue),
			quoteValue,
			formatAmount(paid),
			formatAmount(domain.TotalDue(client.QuoteValue, client.SelectionValue, paid)),
			client.AssignedToName,
			client.SubmittedAt.UTC().Format(timeFormat),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMarketingLeads exports the lead list, one row per lead
func (e *Exporter) WriteMarketingLeads(ctx context.Context, w io.Writer, filters *repository.MarketingLeadFilters) error {
	leads, err := e.leadRepo.GetAll(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to load marketing leads: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Name", "Email", "Phone", "Source", "Status", "Interest",
		"Selection Value", "Last Activity",
	}); err != nil {
		return err
	}

	for _, lead := range leads {
		// Leads never carry a selection; a submitted profile lives in the
		// pipeline instead. The column stays for a stable header set.
		row := []string{
			lead.Name,
			lead.Email,
			lead.Phone,
			string(lead.Source),
			string(lead.Status),
			string(lead.Interest),
			"",
			formatTimePtr(lead.LastActivityAt),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteQuotes exports all quotes, one row per quote
func (e *Exporter) WriteQuotes(ctx context.Context, w io.Writer, filters *repository.QuoteFilters) error {
	quotes, err := e.quoteRepo.GetAll(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to load quotes: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Quote Number", "Client", "Status", "Subtotal", "Discount", "Total",
		"Valid Until", "Sent At", "Loss Reason",
	}); err != nil {
		return err
	}

	for _, quote := range quotes {
		clientName := ""
		if quote.Client != nil {
			clientName = quote.Client.Name
		}
		lossReason := ""
		if quote.LossReason != nil {
			lossReason = string(*quote.LossReason)
		}
		row := []string{
			quote.QuoteNumber,
			clientName,
			string(quote.Status),
			formatAmount(quote.Subtotal),
			formatAmount(quote.DiscountAmount),
			formatAmount(quote.Total),
			formatTimePtr(quote.ValidUntil),
			formatTimePtr(quote.SentAt),
			lossReason,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteOrders exports all orders, one row per order
func (e *Exporter) WriteOrders(ctx context.Context, w io.Writer, filters *repository.OrderFilters) error {
	orders, err := e.orderRepo.GetAll(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Order Number", "Client", "Status", "Amount", "Items",
		"Expected Delivery", "Assigned To", "Created At",
	}); err != nil {
		return err
	}

	for _, order := range orders {
		clientName := ""
		if order.Client != nil {
			clientName = order.Client.Name
		}
		row := []string{
			order.OrderNumber,
			clientName,
			string(order.Status),
			formatAmount(order.Amount),
			strconv.Itoa(len(order.Items)),
			formatTimePtr(order.ExpectedDeliveryAt),
			order.AssignedToName,
			order.CreatedAt.UTC().Format(timeFormat),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDeliveries exports all deliveries, one row per delivery
func (e *Exporter) WriteDeliveries(ctx context.Context, w io.Writer, filters *repository.DeliveryFilters) error {
	deliveries, err := e.deliveryRepo.GetAll(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to load deliveries: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Order Number", "Status", "Address", "City", "Postal Code",
		"Scheduled At", "Time Window", "Driver", "Delivered At", "Failure Reason",
	}); err != nil {
		return err
	}

	for _, delivery := range deliveries {
		orderNumber := ""
		if delivery.Order != nil {
			orderNumber = delivery.Order.OrderNumber
		}
		row := []string{
			orderNumber,
			string(delivery.Status),
			delivery.Address,
			delivery.City,
			delivery.PostalCode,
			delivery.ScheduledAt.UTC().Format(timeFormat),
			delivery.TimeWindow,
			delivery.DriverName,
			formatTimePtr(delivery.DeliveredAt),
			delivery.FailureReason,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timeFormat)
}
