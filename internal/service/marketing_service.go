package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/authz"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/mail"
	"github.com/nordvik-interiors/ops-api/internal/mapper"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MarketingService struct {
	leadRepo     *repository.MarketingLeadRepository
	outreachRepo *repository.OutreachRepository
	pipelineSvc  *PipelineService
	mailer       *mail.Mailer
	logger       *zap.Logger
}

func NewMarketingService(
	leadRepo *repository.MarketingLeadRepository,
	outreachRepo *repository.OutreachRepository,
	pipelineSvc *PipelineService,
	mailer *mail.Mailer,
	logger *zap.Logger,
) *MarketingService {
	return &MarketingService{
		leadRepo:     leadRepo,
		outreachRepo: outreachRepo,
		pipelineSvc:  pipelineSvc,
		mailer:       mailer,
		logger:       logger,
	}
}

// Register records a new marketing lead. Profiles that already
// submitted a selection live in the pipeline and are filtered out of
// every lead listing, so registration itself does not guard against
// them.
func (s *MarketingService) Register(ctx context.Context, req *domain.RegisterLeadRequest) (*domain.MarketingLeadDTO, error) {
	lead := &domain.MarketingLead{
		ProfileID: req.ProfileID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Interest:  domain.NormalizeInterest(req.Interest),
		Status:    domain.MarketingStatusRegistered,
		Source:    domain.NormalizeSource(req.Source),
		Tags:      req.Tags,
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create marketing lead: %w", err)
	}

	dto := mapper.ToMarketingLeadDTO(lead)
	return &dto, nil
}

func (s *MarketingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.MarketingLeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get marketing lead: %w", err)
	}

	dto := mapper.ToMarketingLeadDTO(lead)
	return &dto, nil
}

func (s *MarketingService) List(ctx context.Context, page, pageSize int, filters *repository.MarketingLeadFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	leads, total, err := s.leadRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list marketing leads: %w", err)
	}

	dtos := make([]domain.MarketingLeadDTO, len(leads))
	for i, lead := range leads {
		dtos[i] = mapper.ToMarketingLeadDTO(&lead)
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

// UpdateInterest sets the engagement temperature on a lead
func (s *MarketingService) UpdateInterest(ctx context.Context, id uuid.UUID, req *domain.UpdateInterestRequest) (*domain.MarketingLeadDTO, error) {
	if _, err := s.leadRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get marketing lead: %w", err)
	}

	if err := s.leadRepo.UpdateInterest(ctx, id, domain.NormalizeInterest(req.Interest)); err != nil {
		return nil, fmt.Errorf("failed to update interest: %w", err)
	}

	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload marketing lead: %w", err)
	}

	dto := mapper.ToMarketingLeadDTO(lead)
	return &dto, nil
}

// LogOutreach records a contact attempt against a lead and refreshes
// its activity timestamp. Email outreach can optionally also send the
// message when SMTP is configured.
func (s *MarketingService) LogOutreach(ctx context.Context, leadID uuid.UUID, req *domain.LogOutreachRequest) (*domain.OutreachDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get marketing lead: %w", err)
	}

	outreachType := domain.OutreachType(req.Type)
	if !outreachType.IsValid() {
		outreachType = domain.OutreachOther
	}

	outreach := &domain.Outreach{
		LeadID:     lead.ID,
		Type:       outreachType,
		Outcome:    domain.OutreachOutcome(req.Outcome),
		Note:       req.Note,
		FollowUpAt: req.FollowUpAt,
	}
	if userCtx, ok := authz.FromContext(ctx); ok {
		outreach.CreatedByID = &userCtx.UserID
		outreach.CreatedByName = userCtx.Name
	}

	if err := s.outreachRepo.Create(ctx, outreach); err != nil {
		return nil, fmt.Errorf("failed to log outreach: %w", err)
	}

	if err := s.leadRepo.TouchActivity(ctx, lead.ID, time.Now()); err != nil {
		s.logger.Warn("failed to update lead activity timestamp", zap.Error(err))
	}

	if req.SendEmail && outreachType == domain.OutreachEmail {
		subject := req.Subject
		if subject == "" {
			subject = "Following up on your interest"
		}
		if err := s.mailer.Send(lead.Email, subject, req.Note); err != nil {
			s.logger.Warn("failed to send outreach email",
				zap.String("lead_id", lead.ID.String()),
				zap.Error(err))
		}
	}

	dto := mapper.ToOutreachDTO(outreach)
	return &dto, nil
}

// GetOutreachHistory returns the logged contact attempts for a lead
func (s *MarketingService) GetOutreachHistory(ctx context.Context, leadID uuid.UUID) ([]domain.OutreachDTO, error) {
	entries, err := s.outreachRepo.GetByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outreach history: %w", err)
	}

	dtos := make([]domain.OutreachDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = mapper.ToOutreachDTO(&entry)
	}
	return dtos, nil
}

// ConvertLead turns a marketing lead into a pipeline client by
// submitting a selection on its behalf. The new client keeps the
// lead's profile, so the lead drops out of every marketing listing.
func (s *MarketingService) ConvertLead(ctx context.Context, leadID uuid.UUID, req *domain.ConvertLeadRequest) (*domain.PipelineClientDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get marketing lead: %w", err)
	}

	client, err := s.pipelineSvc.Create(ctx, &domain.CreatePipelineClientRequest{
		ProfileID: lead.ProfileID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Source:    string(lead.Source),
		Items:     req.Items,
		Notes:     req.Notes,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrAlreadySubmitted
		}
		return nil, err
	}

	s.logger.Info("marketing lead converted to pipeline client",
		zap.String("lead_id", lead.ID.String()),
		zap.String("client_id", client.ID.String()))

	return client, nil
}

// GetStats returns the marketing distribution cards over the leads
// still outside the pipeline
func (s *MarketingService) GetStats(ctx context.Context) (*domain.MarketingStatsDTO, error) {
	leads, err := s.leadRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get leads for stats: %w", err)
	}

	stats := ComputeMarketingStats(leads, time.Now())
	return &stats, nil
}
