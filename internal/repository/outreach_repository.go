package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"gorm.io/gorm"
)

type OutreachRepository struct {
	db *gorm.DB
}

func NewOutreachRepository(db *gorm.DB) *OutreachRepository {
	return &OutreachRepository{db: db}
}

func (r *OutreachRepository) Create(ctx context.Context, outreach *domain.Outreach) error {
	return r.db.WithContext(ctx).Create(outreach).Error
}

// GetByLead returns the outreach log for a lead, newest first
func (r *OutreachRepository) GetByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Outreach, error) {
	var entries []domain.Outreach
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
