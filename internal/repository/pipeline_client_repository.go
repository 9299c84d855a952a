package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PipelineClientFilters contains filter options for listing pipeline clients
type PipelineClientFilters struct {
	Stage          *domain.PipelineStage
	Priority       *domain.Priority
	Source         *domain.LeadSource
	AssignedToID   *uuid.UUID
	SubmittedAfter *time.Time
	MinValue       *float64
	MaxValue       *float64
	SearchQuery    *string
}

// PipelineSortOption represents available sort options
type PipelineSortOption string

const (
	PipelineSortBySubmittedDesc PipelineSortOption = "submitted_desc"
	PipelineSortBySubmittedAsc  PipelineSortOption = "submitted_asc"
	PipelineSortByValueDesc     PipelineSortOption = "value_desc"
	PipelineSortByValueAsc      PipelineSortOption = "value_asc"
	PipelineSortByNameAsc       PipelineSortOption = "name_asc"
)

type PipelineClientRepository struct {
	db *gorm.DB
}

func NewPipelineClientRepository(db *gorm.DB) *PipelineClientRepository {
	return &PipelineClientRepository{db: db}
}

func (r *PipelineClientRepository) Create(ctx context.Context, client *domain.PipelineClient) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *PipelineClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineClient, error) {
	var client domain.PipelineClient
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *PipelineClientRepository) GetByProfileID(ctx context.Context, profileID uuid.UUID) (*domain.PipelineClient, error) {
	var client domain.PipelineClient
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&client, "profile_id = ?", profileID).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *PipelineClientRepository) Update(ctx context.Context, client *domain.PipelineClient) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(client).Error
}

func (r *PipelineClientRepository) List(ctx context.Context, page, pageSize int, filters *PipelineClientFilters, sortBy PipelineSortOption) ([]domain.PipelineClient, int64, error) {
	var clients []domain.PipelineClient
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.PipelineClient{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.applySorting(query, sortBy)

	offset := (page - 1) * pageSize
	err := query.Preload("Items").Preload("Payments").
		Offset(offset).Limit(pageSize).Find(&clients).Error

	return clients, total, err
}

// GetAll returns every pipeline client. Used by the stats fold and the
// CSV export, which both work over the full collection.
func (r *PipelineClientRepository) GetAll(ctx context.Context, filters *PipelineClientFilters) ([]domain.PipelineClient, error) {
	var clients []domain.PipelineClient
	query := r.db.WithContext(ctx).Model(&domain.PipelineClient{})
	query = r.applyFilters(query, filters)
	err := query.Order("submitted_at DESC").Find(&clients).Error
	return clients, err
}

// GetBoard returns non-lost clients grouped by stage for the kanban view
func (r *PipelineClientRepository) GetBoard(ctx context.Context) (map[domain.PipelineStage][]domain.PipelineClient, error) {
	var clients []domain.PipelineClient
	err := r.db.WithContext(ctx).
		Where("stage <> ?", domain.StageLost).
		Order("submitted_at ASC").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}

	board := make(map[domain.PipelineStage][]domain.PipelineClient)
	for _, client := range clients {
		stage := domain.NormalizeStage(string(client.Stage))
		board[stage] = append(board[stage], client)
	}
	return board, nil
}

// UpdateStage updates only the stage field (used with stage history
// tracking). CompletedAt is stamped when the stage is completed so the
// monthly stat has a real boundary to filter on.
func (r *PipelineClientRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage domain.PipelineStage) error {
	updates := map[string]interface{}{
		"stage":      stage,
		"updated_at": time.Now(),
	}
	if stage == domain.StageCompleted {
		updates["completed_at"] = time.Now()
	}
	if stage == domain.StageContacted {
		updates["last_contacted_at"] = time.Now()
	}
	return r.db.WithContext(ctx).Model(&domain.PipelineClient{}).Where("id = ?", id).Updates(updates).Error
}

// MarkLost marks a client as lost with the reason
func (r *PipelineClientRepository) MarkLost(ctx context.Context, id uuid.UUID, reason string) error {
	updates := map[string]interface{}{
		"stage":       domain.StageLost,
		"lost_reason": reason,
		"updated_at":  time.Now(),
	}
	return r.db.WithContext(ctx).Model(&domain.PipelineClient{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateSelectionTotals writes the denormalized selection count and value
func (r *PipelineClientRepository) UpdateSelectionTotals(ctx context.Context, id uuid.UUID, count int, value float64) error {
	return r.db.WithContext(ctx).Model(&domain.PipelineClient{}).Where("id = ?", id).Updates(map[string]interface{}{
		"selection_count": count,
		"selection_value": value,
		"updated_at":      time.Now(),
	}).Error
}

// UpdatePaymentTotals writes the denormalized per-milestone paid sums
func (r *PipelineClientRepository) UpdatePaymentTotals(ctx context.Context, id uuid.UUID, totals domain.PaymentTotals) error {
	return r.db.WithContext(ctx).Model(&domain.PipelineClient{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deposit_paid":    totals.DepositPaid,
		"production_paid": totals.ProductionPaid,
		"final_paid":      totals.FinalPaid,
		"updated_at":      time.Now(),
	}).Error
}

// UpdateQuoteValue writes the quote value override
func (r *PipelineClientRepository) UpdateQuoteValue(ctx context.Context, id uuid.UUID, value *float64) error {
	return r.db.WithContext(ctx).Model(&domain.PipelineClient{}).Where("id = ?", id).Updates(map[string]interface{}{
		"quote_value": value,
		"updated_at":  time.Now(),
	}).Error
}

func (r *PipelineClientRepository) applyFilters(query *gorm.DB, filters *PipelineClientFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Stage != nil {
		query = query.Where("stage = ?", *filters.Stage)
	}

	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}

	if filters.Source != nil {
		query = query.Where("source = ?", *filters.Source)
	}

	if filters.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filters.AssignedToID)
	}

	if filters.SubmittedAfter != nil {
		query = query.Where("submitted_at >= ?", *filters.SubmittedAfter)
	}

	if filters.MinValue != nil {
		query = query.Where("COALESCE(quote_value, selection_value) >= ?", *filters.MinValue)
	}

	if filters.MaxValue != nil {
		query = query.Where("COALESCE(quote_value, selection_value) <= ?", *filters.MaxValue)
	}

	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		searchPattern := "%" + strings.ToLower(*filters.SearchQuery) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchPattern, searchPattern)
	}

	return query
}

func (r *PipelineClientRepository) applySorting(query *gorm.DB, sortBy PipelineSortOption) *gorm.DB {
	switch sortBy {
	case PipelineSortBySubmittedAsc:
		return query.Order("submitted_at ASC")
	case PipelineSortByValueDesc:
		return query.Order("COALESCE(quote_value, selection_value) DESC")
	case PipelineSortByValueAsc:
		return query.Order("COALESCE(quote_value, selection_value) ASC")
	case PipelineSortByNameAsc:
		return query.Order("name ASC")
	default: // PipelineSortBySubmittedDesc
		return query.Order("submitted_at DESC")
	}
}
