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

type TeamService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewTeamService(userRepo *repository.UserRepository, logger *zap.Logger) *TeamService {
	return &TeamService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create adds a staff member. Emails are unique across the team.
func (s *TeamService) Create(ctx context.Context, req *domain.CreateTeamMemberRequest) (*domain.TeamMemberDTO, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	role := domain.AdminRole(req.Role)
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}

	user := &domain.AdminUser{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     role,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create team member: %w", err)
	}

	dto := mapper.ToTeamMemberDTO(user)
	return &dto, nil
}

func (s *TeamService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TeamMemberDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}

	dto := mapper.ToTeamMemberDTO(user)
	return &dto, nil
}

func (s *TeamService) List(ctx context.Context, includeInactive bool) ([]domain.TeamMemberDTO, error) {
	users, err := s.userRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	dtos := make([]domain.TeamMemberDTO, len(users))
	for i, user := range users {
		dtos[i] = mapper.ToTeamMemberDTO(&user)
	}
	return dtos, nil
}

func (s *TeamService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTeamMemberRequest) (*domain.TeamMemberDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}

	role := domain.AdminRole(req.Role)
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}

	user.Name = req.Name
	user.Phone = req.Phone
	user.Role = role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update team member: %w", err)
	}

	dto := mapper.ToTeamMemberDTO(user)
	return &dto, nil
}

// Deactivate disables an account. History stays attached to the user,
// so there is no hard delete.
func (s *TeamService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get team member: %w", err)
	}

	if err := s.userRepo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate team member: %w", err)
	}

	s.logger.Info("team member deactivated", zap.String("user_id", id.String()))
	return nil
}
