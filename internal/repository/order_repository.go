package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilters contains filter options for listing orders
type OrderFilters struct {
	Status       *domain.OrderStatus
	ClientID     *uuid.UUID
	AssignedToID *uuid.UUID
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Client").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

func (r *OrderRepository) List(ctx context.Context, page, pageSize int, filters *OrderFilters) ([]domain.Order, int64, error) {
	var orders []domain.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Order{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Items").Preload("Client").
		Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&orders).Error

	return orders, total, err
}

// GetAll returns orders matching the filters without pagination
func (r *OrderRepository) GetAll(ctx context.Context, filters *OrderFilters) ([]domain.Order, error) {
	var orders []domain.Order
	query := r.db.WithContext(ctx).Model(&domain.Order{})
	query = r.applyFilters(query, filters)
	err := query.Preload("Items").Preload("Client").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// UpdateStatus updates only the fulfillment status
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}).Error
}

// NextOrderNumber produces a sequential display number like O-2026-0107
func (r *OrderRepository) NextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	var count int64
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("created_at >= ?", yearStart).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("O-%d-%04d", now.Year(), count+1), nil
}

func (r *OrderRepository) applyFilters(query *gorm.DB, filters *OrderFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if filters.ClientID != nil {
		query = query.Where("client_id = ?", *filters.ClientID)
	}

	if filters.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filters.AssignedToID)
	}

	return query
}
