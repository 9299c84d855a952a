package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.AdminUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error) {
	var user domain.AdminUser
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var user domain.AdminUser
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users, active first, newest within each group
func (r *UserRepository) List(ctx context.Context, includeInactive bool) ([]domain.AdminUser, error) {
	var users []domain.AdminUser
	query := r.db.WithContext(ctx).Model(&domain.AdminUser{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("is_active DESC, created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(ctx context.Context, user *domain.AdminUser) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

// Deactivate disables the account without deleting its history
func (r *UserRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.AdminUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now(),
	}).Error
}

// TouchSeen records the latest successful authentication
func (r *UserRepository) TouchSeen(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.AdminUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_seen_at": time.Now(),
		"updated_at":   time.Now(),
	}).Error
}
