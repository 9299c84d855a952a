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

// QuoteFilters contains filter options for listing quotes
type QuoteFilters struct {
	Status   *domain.QuoteStatus
	ClientID *uuid.UUID
}

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Client").
		First(&quote, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(quote).Error
}

// ReplaceItems swaps a quote's line items inside one transaction
func (r *QuoteRepository) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []domain.QuoteItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quoteID).Delete(&domain.QuoteItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].QuoteID = quoteID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *QuoteRepository) List(ctx context.Context, page, pageSize int, filters *QuoteFilters) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Quote{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Items").Preload("Client").
		Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&quotes).Error

	return quotes, total, err
}

// GetAll returns quotes matching the filters without pagination. Used
// by the stats fold and the CSV export.
func (r *QuoteRepository) GetAll(ctx context.Context, filters *QuoteFilters) ([]domain.Quote, error) {
	var quotes []domain.Quote
	query := r.db.WithContext(ctx).Model(&domain.Quote{})
	query = r.applyFilters(query, filters)
	err := query.Preload("Items").Preload("Client").Order("created_at DESC").Find(&quotes).Error
	return quotes, err
}

// UpdateStatus updates the status plus the matching lifecycle timestamp
func (r *QuoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	switch status {
	case domain.QuoteStatusSent:
		updates["sent_at"] = now
	case domain.QuoteStatusViewed:
		updates["viewed_at"] = now
	case domain.QuoteStatusAccepted, domain.QuoteStatusRejected:
		updates["responded_at"] = now
	}
	return r.db.WithContext(ctx).Model(&domain.Quote{}).Where("id = ?", id).Updates(updates).Error
}

// MarkRejected records the rejection with its loss reason
func (r *QuoteRepository) MarkRejected(ctx context.Context, id uuid.UUID, reason domain.QuoteLossReason) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.Quote{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       domain.QuoteStatusRejected,
		"loss_reason":  reason,
		"responded_at": now,
		"updated_at":   now,
	}).Error
}

// GetExpiredCandidates returns open quotes whose validity window has
// elapsed without a response
func (r *QuoteRepository) GetExpiredCandidates(ctx context.Context, now time.Time) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := r.db.WithContext(ctx).
		Where("status IN ?", []domain.QuoteStatus{domain.QuoteStatusSent, domain.QuoteStatusViewed}).
		Where("valid_until IS NOT NULL AND valid_until < ?", now).
		Find(&quotes).Error
	return quotes, err
}

// MarkExpired moves a quote to the expired terminal state
func (r *QuoteRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Quote{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     domain.QuoteStatusExpired,
		"updated_at": time.Now(),
	}).Error
}

// NextQuoteNumber produces a sequential display number like Q-2026-0042
func (r *QuoteRepository) NextQuoteNumber(ctx context.Context, now time.Time) (string, error) {
	var count int64
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	err := r.db.WithContext(ctx).Model(&domain.Quote{}).
		Where("created_at >= ?", yearStart).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Q-%d-%04d", now.Year(), count+1), nil
}

func (r *QuoteRepository) applyFilters(query *gorm.DB, filters *QuoteFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if filters.ClientID != nil {
		query = query.Where("client_id = ?", *filters.ClientID)
	}

	return query
}
