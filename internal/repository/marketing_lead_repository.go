package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"gorm.io/gorm"
)

// MarketingLeadFilters contains filter options for listing marketing leads
type MarketingLeadFilters struct {
	Interest      *domain.InterestLevel
	Status        *domain.MarketingStatus
	Source        *domain.LeadSource
	InactiveSince *time.Time
	SearchQuery   *string
}

type MarketingLeadRepository struct {
	db *gorm.DB
}

func NewMarketingLeadRepository(db *gorm.DB) *MarketingLeadRepository {
	return &MarketingLeadRepository{db: db}
}

func (r *MarketingLeadRepository) Create(ctx context.Context, lead *domain.MarketingLead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *MarketingLeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MarketingLead, error) {
	var lead domain.MarketingLead
	err := r.db.WithContext(ctx).
		Preload("Outreaches").
		First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *MarketingLeadRepository) Update(ctx context.Context, lead *domain.MarketingLead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

// excludeSubmitted hides leads whose profile has a submission. A
// submitted profile belongs to the pipeline, never to the marketing set.
func (r *MarketingLeadRepository) excludeSubmitted(query *gorm.DB) *gorm.DB {
	return query.Where(
		"NOT EXISTS (SELECT 1 FROM pipeline_clients WHERE pipeline_clients.profile_id = marketing_leads.profile_id)",
	)
}

func (r *MarketingLeadRepository) List(ctx context.Context, page, pageSize int, filters *MarketingLeadFilters) ([]domain.MarketingLead, int64, error) {
	var leads []domain.MarketingLead
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.MarketingLead{})
	query = r.excludeSubmitted(query)
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&leads).Error

	return leads, total, err
}

// GetAll returns every marketing lead without a submission. Used by the
// stats fold and the CSV export.
func (r *MarketingLeadRepository) GetAll(ctx context.Context, filters *MarketingLeadFilters) ([]domain.MarketingLead, error) {
	var leads []domain.MarketingLead
	query := r.db.WithContext(ctx).Model(&domain.MarketingLead{})
	query = r.excludeSubmitted(query)
	query = r.applyFilters(query, filters)
	err := query.Order("created_at DESC").Find(&leads).Error
	return leads, err
}

// GetInactiveSince returns leads whose last activity predates the cutoff
// (or was never recorded), for the follow-up reminder job
func (r *MarketingLeadRepository) GetInactiveSince(ctx context.Context, cutoff time.Time) ([]domain.MarketingLead, error) {
	var leads []domain.MarketingLead
	query := r.db.WithContext(ctx).Model(&domain.MarketingLead{}).
		Where("last_activity_at IS NULL OR last_activity_at < ?", cutoff)
	query = r.excludeSubmitted(query)
	err := query.Find(&leads).Error
	return leads, err
}

// UpdateInterest updates only the interest level
func (r *MarketingLeadRepository) UpdateInterest(ctx context.Context, id uuid.UUID, interest domain.InterestLevel) error {
	return r.db.WithContext(ctx).Model(&domain.MarketingLead{}).Where("id = ?", id).Updates(map[string]interface{}{
		"interest":   interest,
		"updated_at": time.Now(),
	}).Error
}

// TouchActivity stamps the last activity time
func (r *MarketingLeadRepository) TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.MarketingLead{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_activity_at": at,
		"updated_at":       time.Now(),
	}).Error
}

func (r *MarketingLeadRepository) applyFilters(query *gorm.DB, filters *MarketingLeadFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Interest != nil {
		query = query.Where("interest = ?", *filters.Interest)
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if filters.Source != nil {
		query = query.Where("source = ?", *filters.Source)
	}

	if filters.InactiveSince != nil {
		query = query.Where("last_activity_at IS NULL OR last_activity_at < ?", *filters.InactiveSince)
	}

	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		searchPattern := "%" + strings.ToLower(*filters.SearchQuery) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchPattern, searchPattern)
	}

	return query
}
