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

func newTaskService(db *gorm.DB) *service.TaskService {
	return service.NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		zap.NewNop(),
	)
}

func countTaskNotifications(t *testing.T, db *gorm.DB, userID uuid.UUID) int64 {
	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", userID, string(domain.NotificationTaskAssigned)).
		Count(&count).Error)
	return count
}

func TestTaskCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTaskService(db)

	creator := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	assignee := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)
	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)

	task, err := svc.Create(testutil.ContextWithUser(creator), &domain.CreateTaskRequest{
		Title:        "Call about fabric samples",
		Priority:     "URGENT",
		AssignedToID: &assignee.ID,
		ClientID:     &client.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, domain.TaskPriorityNormal, task.Priority) // unknown casing falls back
	assert.Equal(t, "Per Olsen", task.AssignedToName)
	require.NotNil(t, task.ClientID)
	assert.Equal(t, client.ID, *task.ClientID)

	assert.Equal(t, int64(1), countTaskNotifications(t, db, assignee.ID))
}

func TestTaskSelfAssignmentIsQuiet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTaskService(db)

	user := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)

	_, err := svc.Create(testutil.ContextWithUser(user), &domain.CreateTaskRequest{
		Title:        "Prep showroom",
		AssignedToID: &user.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), countTaskNotifications(t, db, user.ID))
}

func TestTaskCreateInactiveAssignee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTaskService(db)

	assignee := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)
	require.NoError(t, db.Model(assignee).Update("is_active", false).Error)

	_, err := svc.Create(context.Background(), &domain.CreateTaskRequest{
		Title:        "Ghost task",
		AssignedToID: &assignee.ID,
	})
	assert.ErrorIs(t, err, service.ErrUserInactive)
}

func TestTaskReassignmentNotifiesOnlyOnChange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTaskService(db)

	manager := testutil.CreateTestUser(t, db, "Jens Dahl", domain.RoleManager)
	first := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	second := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)
	ctx := testutil.ContextWithUser(manager)

	task, err := svc.Create(ctx, &domain.CreateTaskRequest{
		Title:        "Measure living room",
		AssignedToID: &first.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), countTaskNotifications(t, db, first.ID))

	// Same assignee: update is silent
	_, err = svc.Update(ctx, task.ID, &domain.UpdateTaskRequest{
		Title:        "Measure living room and hallway",
		AssignedToID: &first.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), countTaskNotifications(t, db, first.ID))

	// New assignee gets notified
	updated, err := svc.Update(ctx, task.ID, &domain.UpdateTaskRequest{
		Title:        "Measure living room and hallway",
		AssignedToID: &second.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Per Olsen", updated.AssignedToName)
	assert.Equal(t, int64(1), countTaskNotifications(t, db, second.ID))
}

func TestTaskComplete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTaskService(db)
	ctx := context.Background()

	task, err := svc.Create(ctx, &domain.CreateTaskRequest{Title: "Order samples"})
	require.NoError(t, err)

	done, err := svc.Complete(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	_, err = svc.Complete(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTaskDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTaskService(db)
	ctx := context.Background()

	task, err := svc.Create(ctx, &domain.CreateTaskRequest{Title: "Throwaway"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, task.ID))

	_, err = svc.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, task.ID), service.ErrNotFound)
}

func TestTaskListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTaskService(db)
	ctx := context.Background()

	assignee := testutil.CreateTestUser(t, db, "Per Olsen", domain.RoleOperations)

	_, err := svc.Create(ctx, &domain.CreateTaskRequest{Title: "Mine", AssignedToID: &assignee.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.CreateTaskRequest{Title: "Unassigned"})
	require.NoError(t, err)

	result, err := svc.List(ctx, 1, 20, &repository.TaskFilters{AssignedToID: &assignee.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}
