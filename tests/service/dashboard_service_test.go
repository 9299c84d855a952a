package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/internal/service"
	"github.com/nordvik-interiors/ops-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDashboardService(db *gorm.DB) *service.DashboardService {
	return service.NewDashboardService(
		repository.NewPipelineClientRepository(db),
		repository.NewMarketingLeadRepository(db),
		repository.NewQuoteRepository(db),
		repository.NewTaskRepository(db),
		repository.NewDeliveryRepository(db),
		zap.NewNop(),
	)
}

func TestDashboardSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDashboardService(db)
	ctx := context.Background()

	testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageSubmitted)
	testutil.CreateTestClient(t, db, "Ola Berg", domain.StageQuoted)
	testutil.CreateTestLead(t, db, "Silje Moen")

	client := testutil.CreateTestClient(t, db, "Anne Vik", domain.StageReadyDelivery)
	order := testutil.CreateTestOrder(t, db, client.ID)

	deliverySvc := newDeliveryService(db)
	_, err := deliverySvc.Schedule(ctx, &domain.ScheduleDeliveryRequest{
		OrderID:     order.ID,
		Address:     "Storgata 1",
		ScheduledAt: time.Now(),
	})
	require.NoError(t, err)

	failed, err := deliverySvc.Schedule(ctx, &domain.ScheduleDeliveryRequest{
		OrderID:     order.ID,
		Address:     "Storgata 2",
		ScheduledAt: time.Now().AddDate(0, 0, -2),
	})
	require.NoError(t, err)
	_, err = deliverySvc.UpdateStatus(ctx, failed.ID, &domain.UpdateDeliveryStatusRequest{
		Status:        "failed",
		FailureReason: "Truck broke down",
	})
	require.NoError(t, err)

	taskSvc := newTaskService(db)
	overdue := time.Now().Add(-48 * time.Hour)
	_, err = taskSvc.Create(ctx, &domain.CreateTaskRequest{Title: "Call back", DueAt: &overdue})
	require.NoError(t, err)
	_, err = taskSvc.Create(ctx, &domain.CreateTaskRequest{Title: "Order fabric"})
	require.NoError(t, err)

	done, err := taskSvc.Create(ctx, &domain.CreateTaskRequest{Title: "Already handled"})
	require.NoError(t, err)
	_, err = taskSvc.Complete(ctx, done.ID)
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Pipeline.ActiveDeals)
	assert.Equal(t, 1, summary.Pipeline.NewSubmissions)
	assert.Equal(t, 1, summary.Marketing.Total)
	assert.Equal(t, 2, summary.OpenTasks)
	assert.Equal(t, 1, summary.OverdueTasks)
	assert.Equal(t, 1, summary.DeliveriesToday)
	assert.Equal(t, 1, summary.FailedDeliveries)
}
