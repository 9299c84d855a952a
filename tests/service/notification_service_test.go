package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/internal/service"
	"github.com/nordvik-interiors/ops-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newNotificationService(db *gorm.DB) *service.NotificationService {
	return service.NewNotificationService(repository.NewNotificationRepository(db), zap.NewNop())
}

func TestNotificationsRequireUserContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)
	ctx := context.Background()

	_, err := svc.GetForCurrentUser(ctx, 1, 20, false, "")
	assert.ErrorIs(t, err, service.ErrUserContextRequired)

	_, err = svc.GetUnreadCount(ctx)
	assert.ErrorIs(t, err, service.ErrUserContextRequired)

	assert.ErrorIs(t, svc.MarkAllAsReadForUser(ctx), service.ErrUserContextRequired)
}

func TestNotificationListing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)

	user := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	other := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)
	ctx := testutil.ContextWithUser(user)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateForUser(ctx, user.ID, domain.NotificationStageChanged,
			"Stage changed", fmt.Sprintf("Client %d moved", i), "pipeline_client", nil)
		require.NoError(t, err)
	}
	_, err := svc.CreateForUser(ctx, user.ID, domain.NotificationTaskAssigned,
		"Task assigned", "You were assigned: call back", "task", nil)
	require.NoError(t, err)
	_, err = svc.CreateForUser(ctx, other.ID, domain.NotificationStageChanged,
		"Stage changed", "not yours", "pipeline_client", nil)
	require.NoError(t, err)

	// Only the current user's notifications come back
	result, err := svc.GetForCurrentUser(ctx, 1, 20, false, "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.Total)

	byType, err := svc.GetForCurrentUser(ctx, 1, 20, false, string(domain.NotificationTaskAssigned))
	require.NoError(t, err)
	assert.Equal(t, int64(1), byType.Total)

	paged, err := svc.GetForCurrentUser(ctx, 2, 3, false, "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), paged.Total)
	assert.Equal(t, 2, paged.TotalPages)
	assert.Len(t, paged.Data.([]domain.NotificationDTO), 1)
}

func TestMarkAsRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)

	user := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	ctx := testutil.ContextWithUser(user)

	created, err := svc.CreateForUser(ctx, user.ID, domain.NotificationQuoteAccepted,
		"Quote accepted", "Kari Hansen accepted Q-2026-0001", "quote", nil)
	require.NoError(t, err)

	count, err := svc.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)

	require.NoError(t, svc.MarkAsRead(ctx, created.ID))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)
	assert.NotNil(t, got.ReadAt)

	// Marking twice is a no-op
	require.NoError(t, svc.MarkAsRead(ctx, created.ID))

	count, err = svc.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Count)

	unread, err := svc.GetForCurrentUser(ctx, 1, 20, true, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread.Total)
}

func TestMarkAsReadOwnership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)

	owner := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	intruder := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)

	created, err := svc.CreateForUser(testutil.ContextWithUser(owner), owner.ID,
		domain.NotificationFollowUpDue, "Follow up", "Lead has gone quiet", "marketing_lead", nil)
	require.NoError(t, err)

	intruderCtx := testutil.ContextWithUser(intruder)
	assert.ErrorIs(t, svc.MarkAsRead(intruderCtx, created.ID), service.ErrNotificationNotOwned)

	_, err = svc.GetByID(intruderCtx, created.ID)
	assert.ErrorIs(t, err, service.ErrNotificationNotOwned)
}

func TestMarkAllAsRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)

	user := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	other := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)
	ctx := testutil.ContextWithUser(user)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateForUser(ctx, user.ID, domain.NotificationStageChanged,
			"Stage changed", "moved", "pipeline_client", nil)
		require.NoError(t, err)
	}
	_, err := svc.CreateForUser(ctx, other.ID, domain.NotificationStageChanged,
		"Stage changed", "moved", "pipeline_client", nil)
	require.NoError(t, err)

	require.NoError(t, svc.MarkAllAsReadForUser(ctx))

	count, err := svc.GetUnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Count)

	otherCount, err := svc.GetUnreadCount(testutil.ContextWithUser(other))
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherCount.Count)
}
