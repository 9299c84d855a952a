package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/mapper"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService struct {
	orderRepo  *repository.OrderRepository
	clientRepo *repository.PipelineClientRepository
	userRepo   *repository.UserRepository
	logger     *zap.Logger
}

func NewOrderService(
	orderRepo *repository.OrderRepository,
	clientRepo *repository.PipelineClientRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Create registers a confirmed order for a pipeline client with a
// generated order number and the amount summed from the line items
func (s *OrderService) Create(ctx context.Context, req *domain.CreateOrderRequest) (*domain.OrderDTO, error) {
	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pipeline client: %w", err)
	}

	number, err := s.orderRepo.NextOrderNumber(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	var amount float64
	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.OrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		amount += float64(item.Quantity) * item.UnitPrice
	}

	order := &domain.Order{
		ClientID:           req.ClientID,
		OrderNumber:        number,
		Status:             domain.OrderStatusPending,
		Amount:             amount,
		Items:              items,
		ExpectedDeliveryAt: req.ExpectedDeliveryAt,
		Notes:              req.Notes,
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
		order.AssignedToID = &user.ID
		order.AssignedToName = user.Name
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order, err = s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	dto := mapper.ToOrderDTO(order)
	return &dto, nil
}

func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.OrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	dto := mapper.ToOrderDTO(order)
	return &dto, nil
}

func (s *OrderService) List(ctx context.Context, page, pageSize int, filters *repository.OrderFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	orders, total, err := s.orderRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	dtos := make([]domain.OrderDTO, len(orders))
	for i, order := range orders {
		dtos[i] = mapper.ToOrderDTO(&order)
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

// UpdateStatus moves an order through its fulfillment states
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *domain.UpdateOrderStatusRequest) (*domain.OrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	target := domain.NormalizeOrderStatus(req.Status)
	if order.Status == domain.OrderStatusCancelled || order.Status == domain.OrderStatusCompleted {
		return nil, ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, target); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info("order status updated",
		zap.String("order_id", id.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(target)))

	order, err = s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	dto := mapper.ToOrderDTO(order)
	return &dto, nil
}
