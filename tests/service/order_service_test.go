package service_test

import (
	"context"
	"testing"

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

func newOrderService(db *gorm.DB) *service.OrderService {
	return service.NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewPipelineClientRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
}

func TestOrderCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageDepositPaid)
	assignee := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)

	order, err := svc.Create(ctx, &domain.CreateOrderRequest{
		ClientID: client.ID,
		Items: []domain.CreateOrderItemRequest{
			{Name: "Oak dining table", Quantity: 1, UnitPrice: 12000},
			{Name: "Dining chair", Quantity: 4, UnitPrice: 1800},
		},
		AssignedToID: &assignee.ID,
		Notes:        "Deliver before Christmas",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, float64(19200), order.Amount)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Per Olsen", order.AssignedToName)
	assert.Regexp(t, `^O-\d{4}-0001$`, order.OrderNumber)

	second, err := svc.Create(ctx, &domain.CreateOrderRequest{
		ClientID: client.ID,
		Items:    []domain.CreateOrderItemRequest{{Name: "Sideboard", Quantity: 1, UnitPrice: 9000}},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^O-\d{4}-0002$`, second.OrderNumber)
}

func TestOrderCreateUnknownClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)

	_, err := svc.Create(context.Background(), &domain.CreateOrderRequest{
		ClientID: uuid.New(),
		Items:    []domain.CreateOrderItemRequest{{Name: "Sofa", Quantity: 1, UnitPrice: 20000}},
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestOrderCreateInactiveAssignee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageDepositPaid)
	assignee := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)
	require.NoError(t, db.Model(assignee).Update("is_active", false).Error)

	_, err := svc.Create(ctx, &domain.CreateOrderRequest{
		ClientID:     client.ID,
		Items:        []domain.CreateOrderItemRequest{{Name: "Sofa", Quantity: 1, UnitPrice: 20000}},
		AssignedToID: &assignee.ID,
	})
	assert.ErrorIs(t, err, service.ErrUserInactive)
}

func TestOrderStatusTransitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageDepositPaid)
	order := testutil.CreateTestOrder(t, db, client.ID)

	updated, err := svc.UpdateStatus(ctx, order.ID, &domain.UpdateOrderStatusRequest{Status: "in_production"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInProduction, updated.Status)

	updated, err = svc.UpdateStatus(ctx, order.ID, &domain.UpdateOrderStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, &domain.UpdateOrderStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestOrderCancelledIsFinal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageDepositPaid)
	order := testutil.CreateTestOrder(t, db, client.ID)

	_, err := svc.UpdateStatus(ctx, order.ID, &domain.UpdateOrderStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, &domain.UpdateOrderStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestOrderListByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageDepositPaid)
	first := testutil.CreateTestOrder(t, db, client.ID)
	testutil.CreateTestOrder(t, db, client.ID)

	_, err := svc.UpdateStatus(ctx, first.ID, &domain.UpdateOrderStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	status := domain.OrderStatusConfirmed
	result, err := svc.List(ctx, 1, 20, &repository.OrderFilters{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}
