package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/mapper"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DeliveryService struct {
	deliveryRepo     *repository.DeliveryRepository
	orderRepo        *repository.OrderRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewDeliveryService(
	deliveryRepo *repository.DeliveryRepository,
	orderRepo *repository.OrderRepository,
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *DeliveryService {
	return &DeliveryService{
		deliveryRepo:     deliveryRepo,
		orderRepo:        orderRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Schedule books a delivery slot for an order
func (s *DeliveryService) Schedule(ctx context.Context, req *domain.ScheduleDeliveryRequest) (*domain.DeliveryDTO, error) {
	if _, err := s.orderRepo.GetByID(ctx, req.OrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	delivery := &domain.Delivery{
		OrderID:     req.OrderID,
		Status:      domain.DeliveryStatusScheduled,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		ScheduledAt: req.ScheduledAt,
		TimeWindow:  req.TimeWindow,
	}

	if req.DriverID != nil {
		driver, err := s.userRepo.GetByID(ctx, *req.DriverID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to get driver: %w", err)
		}
		if !driver.IsActive {
			return nil, ErrUserInactive
		}
		delivery.DriverID = &driver.ID
		delivery.DriverName = driver.Name
	}

	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return nil, fmt.Errorf("failed to schedule delivery: %w", err)
	}

	delivery, err := s.deliveryRepo.GetByID(ctx, delivery.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload delivery: %w", err)
	}

	dto := mapper.ToDeliveryDTO(delivery)
	return &dto, nil
}

func (s *DeliveryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryDTO, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	dto := mapper.ToDeliveryDTO(delivery)
	return &dto, nil
}

func (s *DeliveryService) List(ctx context.Context, page, pageSize int, filters *repository.DeliveryFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	deliveries, total, err := s.deliveryRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	dtos := make([]domain.DeliveryDTO, len(deliveries))
	for i, delivery := range deliveries {
		dtos[i] = mapper.ToDeliveryDTO(&delivery)
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

// UpdateStatus moves a delivery through its states. A delivered
// delivery also completes the order; a failed one alerts operations.
func (s *DeliveryService) UpdateStatus(ctx context.Context, id uuid.UUID, req *domain.UpdateDeliveryStatusRequest) (*domain.DeliveryDTO, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	if delivery.Status == domain.DeliveryStatusDelivered {
		return nil, ErrInvalidTransition
	}

	target := domain.NormalizeDeliveryStatus(req.Status)
	var failureReason *string
	if target == domain.DeliveryStatusFailed {
		failureReason = &req.FailureReason
	}

	if err := s.deliveryRepo.UpdateStatus(ctx, id, target, failureReason); err != nil {
		return nil, fmt.Errorf("failed to update delivery status: %w", err)
	}

	switch target {
	case domain.DeliveryStatusDelivered:
		if err := s.orderRepo.UpdateStatus(ctx, delivery.OrderID, domain.OrderStatusDelivered); err != nil {
			s.logger.Warn("failed to mark order delivered",
				zap.String("order_id", delivery.OrderID.String()),
				zap.Error(err))
		}
	case domain.DeliveryStatusFailed:
		s.notifyFailure(ctx, delivery, req.FailureReason)
	}

	delivery, err = s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload delivery: %w", err)
	}

	dto := mapper.ToDeliveryDTO(delivery)
	return &dto, nil
}

// notifyFailure alerts managers and operations about a failed delivery
func (s *DeliveryService) notifyFailure(ctx context.Context, delivery *domain.Delivery, reason string) {
	if s.notificationRepo == nil {
		return
	}

	message := fmt.Sprintf("Delivery to %s failed", delivery.Address)
	if reason != "" {
		message = fmt.Sprintf("%s: %s", message, reason)
	}

	err := s.notificationRepo.NotifyRoles(ctx,
		[]domain.AdminRole{domain.RoleManager, domain.RoleOperations},
		func(userID uuid.UUID) *domain.Notification {
			return &domain.Notification{
				UserID:     userID,
				Type:       string(domain.NotificationDeliveryFailed),
				Title:      "Delivery failed",
				Message:    message,
				EntityID:   &delivery.ID,
				EntityType: "delivery",
			}
		})
	if err != nil {
		s.logger.Warn("failed to create delivery failure notifications", zap.Error(err))
	}
}
