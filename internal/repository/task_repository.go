package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskFilters contains filter options for listing tasks
type TaskFilters struct {
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	AssignedToID *uuid.UUID
	ClientID     *uuid.UUID
	DueBefore    *time.Time
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error
}

func (r *TaskRepository) List(ctx context.Context, page, pageSize int, filters *TaskFilters) ([]domain.Task, int64, error) {
	var tasks []domain.Task
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Task{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("COALESCE(due_at, created_at) ASC").
		Offset(offset).Limit(pageSize).Find(&tasks).Error

	return tasks, total, err
}

// Complete marks a task done and stamps the completion time
func (r *TaskRepository) Complete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       domain.TaskStatusCompleted,
		"completed_at": time.Now(),
		"updated_at":   time.Now(),
	}).Error
}

// CountOpen counts tasks not yet done, optionally for a single assignee
func (r *TaskRepository) CountOpen(ctx context.Context, assignedToID *uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("status IN ?", []domain.TaskStatus{domain.TaskStatusPending, domain.TaskStatusInProgress})
	if assignedToID != nil {
		query = query.Where("assigned_to_id = ?", *assignedToID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// CountOverdue counts open tasks whose due date has passed
func (r *TaskRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("status IN ?", []domain.TaskStatus{domain.TaskStatusPending, domain.TaskStatusInProgress}).
		Where("due_at IS NOT NULL AND due_at < ?", now).
		Count(&count).Error
	return count, err
}

func (r *TaskRepository) applyFilters(query *gorm.DB, filters *TaskFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}

	if filters.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filters.AssignedToID)
	}

	if filters.ClientID != nil {
		query = query.Where("client_id = ?", *filters.ClientID)
	}

	if filters.DueBefore != nil {
		query = query.Where("due_at IS NOT NULL AND due_at < ?", *filters.DueBefore)
	}

	return query
}
