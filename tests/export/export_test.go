package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/export"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newExporter(db *gorm.DB) *export.Exporter {
	return export.NewExporter(
		repository.NewPipelineClientRepository(db),
		repository.NewMarketingLeadRepository(db),
		repository.NewQuoteRepository(db),
		repository.NewOrderRepository(db),
		repository.NewDeliveryRepository(db),
	)
}

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportPipelineClients(t *testing.T) {
	db := testutil.SetupTestDB(t)
	exporter := newExporter(db)
	ctx := context.Background()

	// Commas in names must survive the round trip
	client := testutil.CreateTestClient(t, db, "Hansen, Kari", domain.StageQuoted)
	require.NoError(t, db.Model(client).Updates(map[string]interface{}{
		"quote_value":  14000.0,
		"deposit_paid": 2800.0,
	}).Error)

	var buf bytes.Buffer
	require.NoError(t, exporter.WritePipelineClients(ctx, &buf, nil))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"Name", "Email", "Phone", "Stage", "Priority", "Source",
		"Selection Value", "Quote Value", "Total Paid", "Total Due",
		"Assigned To", "Submitted At",
	}, records[0])

	row := records[1]
	assert.Equal(t, "Hansen, Kari", row[0])
	assert.Equal(t, "quoted", row[3])
	assert.Equal(t, "5000.00", row[6])
	assert.Equal(t, "14000.00", row[7])
	assert.Equal(t, "2800.00", row[8])
	assert.Equal(t, "11200.00", row[9])
}

func TestExportPipelineClientsNoQuote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	exporter := newExporter(db)

	testutil.CreateTestClient(t, db, "Ola Berg", domain.StageSubmitted)

	var buf bytes.Buffer
	require.NoError(t, exporter.WritePipelineClients(context.Background(), &buf, nil))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)

	// No quote yet: the column stays empty and the due amount falls
	// back to the selection value
	assert.Equal(t, "", records[1][7])
	assert.Equal(t, "5000.00", records[1][9])
}

func TestExportMarketingLeads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	exporter := newExporter(db)

	testutil.CreateTestLead(t, db, "Silje Moen")

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteMarketingLeads(context.Background(), &buf, nil))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"Name", "Email", "Phone", "Source", "Status", "Interest",
		"Selection Value", "Last Activity",
	}, records[0])

	row := records[1]
	assert.Equal(t, "Silje Moen", row[0])
	assert.Equal(t, "website_signup", row[3])
	assert.Equal(t, "registered", row[4])
	assert.Equal(t, "warm", row[5])
	assert.Equal(t, "", row[6])
	assert.Equal(t, "", row[7])
}

func TestExportQuotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	exporter := newExporter(db)

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)
	quote := &domain.Quote{
		ClientID:       client.ID,
		QuoteNumber:    "Q-2026-0001",
		Status:         domain.QuoteStatusDraft,
		Subtotal:       14900,
		DiscountAmount: 900,
		Total:          14000,
	}
	require.NoError(t, db.Create(quote).Error)

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteQuotes(context.Background(), &buf, nil))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, "Q-2026-0001", row[0])
	assert.Equal(t, "Kari Hansen", row[1])
	assert.Equal(t, "draft", row[2])
	assert.Equal(t, "14900.00", row[3])
	assert.Equal(t, "900.00", row[4])
	assert.Equal(t, "14000.00", row[5])
	assert.Equal(t, "", row[8])
}

func TestExportOrders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	exporter := newExporter(db)

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageDepositPaid)
	order := testutil.CreateTestOrder(t, db, client.ID)

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteOrders(context.Background(), &buf, nil))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, order.OrderNumber, row[0])
	assert.Equal(t, "Kari Hansen", row[1])
	assert.Equal(t, "pending", row[2])
	assert.Equal(t, "5000.00", row[3])
	assert.Equal(t, "1", row[4])
}

func TestExportDeliveries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	exporter := newExporter(db)

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageReadyDelivery)
	order := testutil.CreateTestOrder(t, db, client.ID)
	delivery := &domain.Delivery{
		OrderID:    order.ID,
		Status:     domain.DeliveryStatusScheduled,
		Address:    "Storgata 1",
		City:       "Oslo",
		PostalCode: "0155",
		TimeWindow: "08:00-12:00",
	}
	require.NoError(t, db.Create(delivery).Error)

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteDeliveries(context.Background(), &buf, nil))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, order.OrderNumber, row[0])
	assert.Equal(t, "scheduled", row[1])
	assert.Equal(t, "Storgata 1", row[2])
	assert.Equal(t, "Oslo", row[3])
	assert.Equal(t, "08:00-12:00", row[6])
	assert.Equal(t, "", row[8])
}
