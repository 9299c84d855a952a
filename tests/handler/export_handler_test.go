package handler_test

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/export"
	"github.com/nordvik-interiors/ops-api/internal/http/handler"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createExportHandler(db *gorm.DB) *handler.ExportHandler {
	exporter := export.NewExporter(
		repository.NewPipelineClientRepository(db),
		repository.NewMarketingLeadRepository(db),
		repository.NewQuoteRepository(db),
		repository.NewOrderRepository(db),
		repository.NewDeliveryRepository(db),
	)
	return handler.NewExportHandler(exporter, zap.NewNop())
}

func TestExportHandler_PipelineClients(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createExportHandler(db)

	testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)
	testutil.CreateTestClient(t, db, "Ola Berg", domain.StageSubmitted)

	t.Run("download headers and full list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export/pipeline.csv", nil)
		rr := httptest.NewRecorder()
		h.PipelineClients(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
		disposition := rr.Header().Get("Content-Disposition")
		assert.True(t, strings.HasPrefix(disposition, `attachment; filename="pipeline-`))
		assert.True(t, strings.HasSuffix(disposition, `.csv"`))

		records, err := csv.NewReader(rr.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "Name", records[0][0])
	})

	t.Run("stage filter narrows the rows", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export/pipeline.csv?stage=quoted", nil)
		rr := httptest.NewRecorder()
		h.PipelineClients(rr, req)

		records, err := csv.NewReader(rr.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Kari Hansen", records[1][0])
	})
}

func TestExportHandler_MarketingLeads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createExportHandler(db)

	testutil.CreateTestLead(t, db, "Silje Moen")

	req := httptest.NewRequest(http.MethodGet, "/export/leads.csv", nil)
	rr := httptest.NewRecorder()
	h.MarketingLeads(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Disposition"), `attachment; filename="leads-`))

	records, err := csv.NewReader(rr.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Silje Moen", records[1][0])
}

func TestExportHandler_EmptyCollection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createExportHandler(db)

	// No quotes at all: the export still emits the header row
	req := httptest.NewRequest(http.MethodGet, "/export/quotes.csv", nil)
	rr := httptest.NewRecorder()
	h.Quotes(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	records, err := csv.NewReader(rr.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Quote Number", records[0][0])
}
