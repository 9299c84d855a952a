package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"gorm.io/gorm"
)

type StageHistoryRepository struct {
	db *gorm.DB
}

func NewStageHistoryRepository(db *gorm.DB) *StageHistoryRepository {
	return &StageHistoryRepository{db: db}
}

func (r *StageHistoryRepository) Create(ctx context.Context, entry *domain.StageHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByClient returns the stage trail for a client, newest first
func (r *StageHistoryRepository) GetByClient(ctx context.Context, clientID uuid.UUID) ([]domain.StageHistory, error) {
	var entries []domain.StageHistory
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("changed_at DESC").
		Find(&entries).Error
	return entries, err
}
