package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/internal/service"
	"github.com/nordvik-interiors/ops-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDeliveryService(db *gorm.DB) *service.DeliveryService {
	return service.NewDeliveryService(
		repository.NewDeliveryRepository(db),
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		zap.NewNop(),
	)
}

func TestScheduleDelivery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDeliveryService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageInProduction)
	order := testutil.CreateTestOrder(t, db, client.ID)
	driver := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)

	delivery, err := svc.Schedule(ctx, &domain.ScheduleDeliveryRequest{
		OrderID:     order.ID,
		Address:     "Storgata 1",
		City:        "Oslo",
		PostalCode:  "0155",
		ScheduledAt: time.Now().Add(48 * time.Hour),
		TimeWindow:  "08:00-12:00",
		DriverID:    &driver.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DeliveryStatusScheduled, delivery.Status)
	assert.Equal(t, "Storgata 1", delivery.Address)
	assert.Equal(t, "Per Olsen", delivery.DriverName)
}

func TestScheduleDeliveryUnknownOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDeliveryService(db)

	_, err := svc.Schedule(context.Background(), &domain.ScheduleDeliveryRequest{
		OrderID:     uuid.New(),
		Address:     "Storgata 1",
		ScheduledAt: time.Now(),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestScheduleDeliveryInactiveDriver(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDeliveryService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageInProduction)
	order := testutil.CreateTestOrder(t, db, client.ID)
	driver := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)
	require.NoError(t, db.Model(driver).Update("is_active", false).Error)

	_, err := svc.Schedule(ctx, &domain.ScheduleDeliveryRequest{
		OrderID:     order.ID,
		Address:     "Storgata 1",
		ScheduledAt: time.Now(),
		DriverID:    &driver.ID,
	})
	assert.ErrorIs(t, err, service.ErrUserInactive)
}

func TestDeliveredCompletesOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDeliveryService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageReadyDelivery)
	order := testutil.CreateTestOrder(t, db, client.ID)

	delivery, err := svc.Schedule(ctx, &domain.ScheduleDeliveryRequest{
		OrderID:     order.ID,
		Address:     "Storgata 1",
		ScheduledAt: time.Now(),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, delivery.ID, &domain.UpdateDeliveryStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusDelivered, updated.Status)
	assert.NotNil(t, updated.DeliveredAt)

	var reloaded domain.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, domain.OrderStatusDelivered, reloaded.Status)

	// Delivered is final for the delivery itself
	_, err = svc.UpdateStatus(ctx, delivery.ID, &domain.UpdateDeliveryStatusRequest{Status: "failed"})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestFailedDeliveryNotifiesOperations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDeliveryService(db)
	ctx := context.Background()

	manager := testutil.CreateTestUser(t, db, "Jens Dahl", domain.RoleManager)
	ops := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)
	sales := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	inactive := testutil.CreateTestUser(t, db, "Gone Guy", domain.RoleOperations)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageReadyDelivery)
	order := testutil.CreateTestOrder(t, db, client.ID)

	delivery, err := svc.Schedule(ctx, &domain.ScheduleDeliveryRequest{
		OrderID:     order.ID,
		Address:     "Storgata 1",
		ScheduledAt: time.Now(),
	})
	require.NoError(t, err)

	failed, err := svc.UpdateStatus(ctx, delivery.ID, &domain.UpdateDeliveryStatusRequest{
		Status:        "failed",
		FailureReason: "Nobody home",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusFailed, failed.Status)
	assert.Equal(t, "Nobody home", failed.FailureReason)

	// Managers and active operations staff are alerted, nobody else
	var notifications []domain.Notification
	require.NoError(t, db.Where("type = ?", string(domain.NotificationDeliveryFailed)).Find(&notifications).Error)
	require.Len(t, notifications, 2)

	notified := map[uuid.UUID]bool{}
	for _, n := range notifications {
		notified[n.UserID] = true
		assert.Contains(t, n.Message, "Nobody home")
	}
	assert.True(t, notified[manager.ID])
	assert.True(t, notified[ops.ID])
	assert.False(t, notified[sales.ID])
	assert.False(t, notified[inactive.ID])

	// A failed delivery can still be rescheduled
	rescheduled, err := svc.UpdateStatus(ctx, delivery.ID, &domain.UpdateDeliveryStatusRequest{Status: "rescheduled"})
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusRescheduled, rescheduled.Status)
}

func TestDeliveryListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDeliveryService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageReadyDelivery)
	order := testutil.CreateTestOrder(t, db, client.ID)

	for _, offset := range []time.Duration{24 * time.Hour, 72 * time.Hour} {
		_, err := svc.Schedule(ctx, &domain.ScheduleDeliveryRequest{
			OrderID:     order.ID,
			Address:     "Storgata 1",
			ScheduledAt: time.Now().Add(offset),
		})
		require.NoError(t, err)
	}

	to := time.Now().Add(48 * time.Hour)
	result, err := svc.List(ctx, 1, 20, &repository.DeliveryFilters{ScheduledTo: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}
