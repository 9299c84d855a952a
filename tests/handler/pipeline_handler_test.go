package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/http/handler"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/internal/service"
	"github.com/nordvik-interiors/ops-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createPipelineHandler(db *gorm.DB) *handler.PipelineHandler {
	svc := service.NewPipelineService(
		repository.NewPipelineClientRepository(db),
		repository.NewStageHistoryRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewNotificationRepository(db),
		zap.NewNop(),
		db,
	)
	return handler.NewPipelineHandler(svc, zap.NewNop())
}

func pipelineTestContext(t *testing.T, db *gorm.DB) context.Context {
	user := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	return testutil.ContextWithUser(user)
}

// withURLParam attaches a chi route context carrying the {id} parameter
func withURLParam(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func postJSON(ctx context.Context, target string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(ctx)
}

func TestPipelineHandler_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createPipelineHandler(db)
	ctx := pipelineTestContext(t, db)

	t.Run("create valid client", func(t *testing.T) {
		price := 7450.0
		req := postJSON(ctx, "/pipeline/clients", domain.CreatePipelineClientRequest{
			ProfileID: uuid.New(),
			Name:      "Kari Hansen",
			Email:     "kari@example.com",
			Source:    "website",
			Items: []domain.CreateSelectionItemRequest{
				{Name: "Oak dining table", Quantity: 2, UnitPrice: &price},
			},
		})

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("Location"))

		var client domain.PipelineClientDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &client))
		assert.Equal(t, domain.StageSubmitted, client.Stage)
		assert.Equal(t, domain.SourceWebsiteSignup, client.Source)
		assert.Equal(t, float64(14900), client.SelectionValue)
	})

	t.Run("create with malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/pipeline/clients", bytes.NewReader([]byte("not json")))
		req = req.WithContext(ctx)
		req.Header.Set("Content-Type", "application/json")

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("create with missing required fields", func(t *testing.T) {
		req := postJSON(ctx, "/pipeline/clients", domain.CreatePipelineClientRequest{
			Name: "No Profile",
			// Missing ProfileID, Email, Items
		})

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
		assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
		assert.Contains(t, apiErr.Errors, "profileId")
		assert.Contains(t, apiErr.Errors, "email")
		assert.Contains(t, apiErr.Errors, "items")
	})

	t.Run("create duplicate profile", func(t *testing.T) {
		profileID := uuid.New()
		price := 5000.0
		body := domain.CreatePipelineClientRequest{
			ProfileID: profileID,
			Name:      "Kari Hansen",
			Email:     "kari@example.com",
			Items: []domain.CreateSelectionItemRequest{
				{Name: "Sofa", Quantity: 1, UnitPrice: &price},
			},
		}

		rr := httptest.NewRecorder()
		h.Create(rr, postJSON(ctx, "/pipeline/clients", body))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = httptest.NewRecorder()
		h.Create(rr, postJSON(ctx, "/pipeline/clients", body))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestPipelineHandler_MoveStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createPipelineHandler(db)
	ctx := pipelineTestContext(t, db)

	t.Run("move onto column", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageSubmitted)

		req := postJSON(ctx, "/pipeline/clients/"+client.ID.String()+"/move",
			domain.MoveStageRequest{TargetStage: "contacted"})
		req = withURLParam(req, client.ID.String())

		rr := httptest.NewRecorder()
		h.MoveStage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var dto domain.PipelineClientDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, domain.StageContacted, dto.Stage)
	})

	t.Run("lost is not a drop target", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Ola Berg", domain.StageQuoted)

		req := postJSON(ctx, "/pipeline/clients/"+client.ID.String()+"/move",
			domain.MoveStageRequest{TargetStage: "lost"})
		req = withURLParam(req, client.ID.String())

		rr := httptest.NewRecorder()
		h.MoveStage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("lost client is immovable", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Anne Vik", domain.StageLost)

		req := postJSON(ctx, "/pipeline/clients/"+client.ID.String()+"/move",
			domain.MoveStageRequest{TargetStage: "contacted"})
		req = withURLParam(req, client.ID.String())

		rr := httptest.NewRecorder()
		h.MoveStage(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("unknown client", func(t *testing.T) {
		id := uuid.New()
		req := postJSON(ctx, "/pipeline/clients/"+id.String()+"/move",
			domain.MoveStageRequest{TargetStage: "contacted"})
		req = withURLParam(req, id.String())

		rr := httptest.NewRecorder()
		h.MoveStage(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := postJSON(ctx, "/pipeline/clients/not-a-uuid/move",
			domain.MoveStageRequest{TargetStage: "contacted"})
		req = withURLParam(req, "not-a-uuid")

		rr := httptest.NewRecorder()
		h.MoveStage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestPipelineHandler_AdvanceStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createPipelineHandler(db)
	ctx := pipelineTestContext(t, db)

	t.Run("advance to next stage", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageReadyDelivery)

		req := httptest.NewRequest(http.MethodPost, "/pipeline/clients/"+client.ID.String()+"/advance", nil)
		req = withURLParam(req.WithContext(ctx), client.ID.String())

		rr := httptest.NewRecorder()
		h.AdvanceStage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var dto domain.PipelineClientDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, domain.StageCompleted, dto.Stage)
		assert.NotNil(t, dto.CompletedAt)
	})

	t.Run("advance past terminal stage", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Ola Berg", domain.StageCompleted)

		req := httptest.NewRequest(http.MethodPost, "/pipeline/clients/"+client.ID.String()+"/advance", nil)
		req = withURLParam(req.WithContext(ctx), client.ID.String())

		rr := httptest.NewRecorder()
		h.AdvanceStage(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestPipelineHandler_MarkLost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createPipelineHandler(db)
	ctx := pipelineTestContext(t, db)

	t.Run("mark lost with reason", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)

		req := postJSON(ctx, "/pipeline/clients/"+client.ID.String()+"/lost",
			domain.MarkLostRequest{Reason: "Went with a competitor"})
		req = withURLParam(req, client.ID.String())

		rr := httptest.NewRecorder()
		h.MarkLost(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var dto domain.PipelineClientDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, domain.StageLost, dto.Stage)
		assert.Equal(t, "Went with a competitor", dto.LostReason)
	})

	t.Run("reason is required", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Ola Berg", domain.StageQuoted)

		req := postJSON(ctx, "/pipeline/clients/"+client.ID.String()+"/lost",
			domain.MarkLostRequest{})
		req = withURLParam(req, client.ID.String())

		rr := httptest.NewRecorder()
		h.MarkLost(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
		assert.Contains(t, apiErr.Errors, "reason")
	})
}

func TestPipelineHandler_RecordPayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createPipelineHandler(db)
	ctx := pipelineTestContext(t, db)

	t.Run("record deposit", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageDepositPaid)

		req := postJSON(ctx, "/pipeline/clients/"+client.ID.String()+"/payments",
			domain.RecordPaymentRequest{Type: "deposit", Amount: 1000})
		req = withURLParam(req, client.ID.String())

		rr := httptest.NewRecorder()
		h.RecordPayment(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var dto domain.PipelineClientDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
		assert.Equal(t, float64(1000), dto.DepositPaid)
		assert.Equal(t, float64(1000), dto.TotalPaid)
		assert.Equal(t, float64(4000), dto.TotalDue)
		assert.Equal(t, 20, dto.PaymentPercentage)
	})

	t.Run("amount must be positive", func(t *testing.T) {
		client := testutil.CreateTestClient(t, db, "Ola Berg", domain.StageDepositPaid)

		req := postJSON(ctx, "/pipeline/clients/"+client.ID.String()+"/payments",
			domain.RecordPaymentRequest{Type: "deposit", Amount: 0})
		req = withURLParam(req, client.ID.String())

		rr := httptest.NewRecorder()
		h.RecordPayment(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown client", func(t *testing.T) {
		id := uuid.New()
		req := postJSON(ctx, "/pipeline/clients/"+id.String()+"/payments",
			domain.RecordPaymentRequest{Type: "deposit", Amount: 500})
		req = withURLParam(req, id.String())

		rr := httptest.NewRecorder()
		h.RecordPayment(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
