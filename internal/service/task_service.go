package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/authz"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/mapper"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskService struct {
	taskRepo         *repository.TaskRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:         taskRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Create registers a task, optionally linked to a pipeline entity, and
// notifies the assignee
func (s *TaskService) Create(ctx context.Context, req *domain.CreateTaskRequest) (*domain.TaskDTO, error) {
	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatusPending,
		Priority:    domain.NormalizeTaskPriority(req.Priority),
		DueAt:       req.DueAt,
		ClientID:    req.ClientID,
		OrderID:     req.OrderID,
		QuoteID:     req.QuoteID,
		DeliveryID:  req.DeliveryID,
	}

	if req.AssignedToID != nil {
		user, err := s.userRepo.GetByID(ctx, *req.AssignedToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to get assignee: %w", err)
		}
		if !user.IsActive {
			return nil, ErrUserInactive
		}
		task.AssignedToID = &user.ID
		task.AssignedToName = user.Name
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notifyAssignment(ctx, task)

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) List(ctx context.Context, page, pageSize int, filters *repository.TaskFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	tasks, total, err := s.taskRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	dtos := make([]domain.TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = mapper.ToTaskDTO(&task)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTaskRequest) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	previousAssignee := task.AssignedToID

	task.Title = req.Title
	task.Description = req.Description
	if req.Status != "" {
		task.Status = domain.NormalizeTaskStatus(req.Status)
	}
	if req.Priority != "" {
		task.Priority = domain.NormalizeTaskPriority(req.Priority)
	}
	task.DueAt = req.DueAt

	if req.AssignedToID != nil {
		user, err := s.userRepo.GetByID(ctx, *req.AssignedToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to get assignee: %w", err)
		}
		if !user.IsActive {
			return nil, ErrUserInactive
		}
		task.AssignedToID = &user.ID
		task.AssignedToName = user.Name
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if task.AssignedToID != nil && (previousAssignee == nil || *previousAssignee != *task.AssignedToID) {
		s.notifyAssignment(ctx, task)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

// Complete marks a task done
func (s *TaskService) Complete(ctx context.Context, id uuid.UUID) (*domain.TaskDTO, error) {
	if _, err := s.taskRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := s.taskRepo.Complete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.taskRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get task: %w", err)
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// notifyAssignment tells the assignee about a task assigned by someone
// else
func (s *TaskService) notifyAssignment(ctx context.Context, task *domain.Task) {
	if s.notificationRepo == nil || task.AssignedToID == nil {
		return
	}
	if userCtx, ok := authz.FromContext(ctx); ok && userCtx.UserID == *task.AssignedToID {
		return
	}

	notification := &domain.Notification{
		UserID:     *task.AssignedToID,
		Type:       string(domain.NotificationTaskAssigned),
		Title:      "Task assigned",
		Message:    fmt.Sprintf("You were assigned: %s", task.Title),
		EntityID:   &task.ID,
		EntityType: "task",
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to create task assignment notification", zap.Error(err))
	}
}
