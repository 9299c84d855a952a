package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliveryFilters contains filter options for listing deliveries
type DeliveryFilters struct {
	Status        *domain.DeliveryStatus
	OrderID       *uuid.UUID
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
}

type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Delivery, error) {
	var delivery domain.Delivery
	err := r.db.WithContext(ctx).
		Preload("Order").
		First(&delivery, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *DeliveryRepository) Update(ctx context.Context, delivery *domain.Delivery) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(delivery).Error
}

func (r *DeliveryRepository) List(ctx context.Context, page, pageSize int, filters *DeliveryFilters) ([]domain.Delivery, int64, error) {
	var deliveries []domain.Delivery
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Delivery{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Order").
		Order("scheduled_at ASC").Offset(offset).Limit(pageSize).Find(&deliveries).Error

	return deliveries, total, err
}

// GetAll returns deliveries matching the filters without pagination
func (r *DeliveryRepository) GetAll(ctx context.Context, filters *DeliveryFilters) ([]domain.Delivery, error) {
	var deliveries []domain.Delivery
	query := r.db.WithContext(ctx).Model(&domain.Delivery{})
	query = r.applyFilters(query, filters)
	err := query.Preload("Order").Order("scheduled_at ASC").Find(&deliveries).Error
	return deliveries, err
}

// UpdateStatus updates the delivery status. A failed status records the reason,
// a delivered status stamps the completion time.
func (r *DeliveryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus, failureReason *string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	switch status {
	case domain.DeliveryStatusDelivered:
		updates["delivered_at"] = time.Now()
	case domain.DeliveryStatusFailed:
		if failureReason != nil {
			updates["failure_reason"] = *failureReason
		}
	}
	return r.db.WithContext(ctx).Model(&domain.Delivery{}).Where("id = ?", id).Updates(updates).Error
}

// CountScheduledOn counts deliveries scheduled within the given calendar day
func (r *DeliveryRepository) CountScheduledOn(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Delivery{}).
		Where("scheduled_at >= ? AND scheduled_at < ?", start, end).
		Where("status NOT IN ?", []domain.DeliveryStatus{domain.DeliveryStatusDelivered, domain.DeliveryStatusFailed}).
		Count(&count).Error
	return count, err
}

// CountFailed counts deliveries currently in the failed state
func (r *DeliveryRepository) CountFailed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Delivery{}).
		Where("status = ?", domain.DeliveryStatusFailed).
		Count(&count).Error
	return count, err
}

func (r *DeliveryRepository) applyFilters(query *gorm.DB, filters *DeliveryFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if filters.OrderID != nil {
		query = query.Where("order_id = ?", *filters.OrderID)
	}

	if filters.ScheduledFrom != nil {
		query = query.Where("scheduled_at >= ?", *filters.ScheduledFrom)
	}

	if filters.ScheduledTo != nil {
		query = query.Where("scheduled_at <= ?", *filters.ScheduledTo)
	}

	return query
}
