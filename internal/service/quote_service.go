package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/authz"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/mapper"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Forward-only quote lifecycle: draft goes out as sent, the client may
// view it, then it is decided or expires. A decision straight from sent
// is allowed; a recorded view is not a precondition for deciding.
var validQuoteTransitions = map[domain.QuoteStatus][]domain.QuoteStatus{
	domain.QuoteStatusDraft:    {domain.QuoteStatusSent},
	domain.QuoteStatusSent:     {domain.QuoteStatusViewed, domain.QuoteStatusAccepted, domain.QuoteStatusRejected, domain.QuoteStatusExpired},
	domain.QuoteStatusViewed:   {domain.QuoteStatusAccepted, domain.QuoteStatusRejected, domain.QuoteStatusExpired},
	domain.QuoteStatusAccepted: {},
	domain.QuoteStatusRejected: {},
	domain.QuoteStatusExpired:  {},
}

type QuoteService struct {
	quoteRepo        *repository.QuoteRepository
	clientRepo       *repository.PipelineClientRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	clientRepo *repository.PipelineClientRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:        quoteRepo,
		clientRepo:       clientRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Create builds a draft quote for a pipeline client with a generated
// quote number and totals computed from the line items
func (s *QuoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.QuoteDTO, error) {
	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pipeline client: %w", err)
	}

	number, err := s.quoteRepo.NextQuoteNumber(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote number: %w", err)
	}

	items := make([]domain.QuoteItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.QuoteItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	subtotal, total := domain.QuoteTotal(items, req.DiscountAmount)

	quote := &domain.Quote{
		ClientID:       req.ClientID,
		QuoteNumber:    number,
		Status:         domain.QuoteStatusDraft,
		Items:          items,
		Subtotal:       subtotal,
		DiscountAmount: req.DiscountAmount,
		Total:          total,
		ValidUntil:     req.ValidUntil,
		Notes:          req.Notes,
	}
	if userCtx, ok := authz.FromContext(ctx); ok {
		quote.CreatedByID = &userCtx.UserID
		quote.CreatedByName = userCtx.Name
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	quote, err = s.quoteRepo.GetByID(ctx, quote.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// Update replaces the line items and terms of a quote. Only drafts can
// change; a quote that went out is immutable.
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuoteRequest) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	if quote.Status != domain.QuoteStatusDraft {
		return nil, ErrQuoteNotEditable
	}

	items := make([]domain.QuoteItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.QuoteItem{
			QuoteID:     quote.ID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	subtotal, total := domain.QuoteTotal(items, req.DiscountAmount)

	if err := s.quoteRepo.ReplaceItems(ctx, quote.ID, items); err != nil {
		return nil, fmt.Errorf("failed to replace quote items: %w", err)
	}

	quote.Subtotal = subtotal
	quote.DiscountAmount = req.DiscountAmount
	quote.Total = total
	quote.ValidUntil = req.ValidUntil
	quote.Notes = req.Notes

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	quote, err = s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

func (s *QuoteService) List(ctx context.Context, page, pageSize int, filters *repository.QuoteFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	quotes, total, err := s.quoteRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	dtos := make([]domain.QuoteDTO, len(quotes))
	for i, quote := range quotes {
		dtos[i] = mapper.ToQuoteDTO(&quote)
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

// Send moves a draft out the door
func (s *QuoteService) Send(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	return s.transition(ctx, id, domain.QuoteStatusSent)
}

// MarkViewed records that the client opened the quote
func (s *QuoteService) MarkViewed(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	return s.transition(ctx, id, domain.QuoteStatusViewed)
}

// Accept marks a quote accepted and writes its total onto the client
// as the quote value override
func (s *QuoteService) Accept(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	dto, err := s.transition(ctx, id, domain.QuoteStatusAccepted)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.UpdateQuoteValue(ctx, dto.ClientID, &dto.Total); err != nil {
		return nil, fmt.Errorf("failed to update client quote value: %w", err)
	}

	s.notifyDecision(ctx, dto, domain.NotificationQuoteAccepted, "Quote accepted",
		fmt.Sprintf("Quote %s was accepted at %.2f", dto.QuoteNumber, dto.Total))

	return dto, nil
}

// Reject marks a quote rejected with a categorized loss reason
func (s *QuoteService) Reject(ctx context.Context, id uuid.UUID, req *domain.RejectQuoteRequest) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	if !s.isValidTransition(quote.Status, domain.QuoteStatusRejected) {
		return nil, ErrInvalidQuoteTransition
	}

	reason := domain.QuoteLossReason(req.LossReason)
	if !reason.IsValid() {
		reason = domain.LossReasonOther
	}

	if err := s.quoteRepo.MarkRejected(ctx, id, reason); err != nil {
		return nil, fmt.Errorf("failed to reject quote: %w", err)
	}

	quote, err = s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(quote)
	s.notifyDecision(ctx, &dto, domain.NotificationQuoteRejected, "Quote rejected",
		fmt.Sprintf("Quote %s was rejected: %s", dto.QuoteNumber, reason))

	return &dto, nil
}

// ExpireOverdue sweeps sent and viewed quotes whose validity window
// elapsed without an answer. Returns how many were expired.
func (s *QuoteService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.quoteRepo.GetExpiredCandidates(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired quotes: %w", err)
	}

	expired := 0
	for _, quote := range candidates {
		if err := s.quoteRepo.MarkExpired(ctx, quote.ID); err != nil {
			s.logger.Warn("failed to expire quote",
				zap.String("quote_id", quote.ID.String()),
				zap.Error(err))
			continue
		}
		expired++

		if quote.CreatedByID != nil && s.notificationRepo != nil {
			notification := &domain.Notification{
				UserID:     *quote.CreatedByID,
				Type:       string(domain.NotificationQuoteExpired),
				Title:      "Quote expired",
				Message:    fmt.Sprintf("Quote %s expired without an answer", quote.QuoteNumber),
				EntityID:   &quote.ID,
				EntityType: "quote",
			}
			if err := s.notificationRepo.Create(ctx, notification); err != nil {
				s.logger.Warn("failed to create expiry notification", zap.Error(err))
			}
		}
	}

	return expired, nil
}

// GetStats returns the win/loss figures over all quotes
func (s *QuoteService) GetStats(ctx context.Context) (*domain.QuoteStatsDTO, error) {
	quotes, err := s.quoteRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get quotes for stats: %w", err)
	}

	stats := ComputeQuoteStats(quotes)
	return &stats, nil
}

func (s *QuoteService) transition(ctx context.Context, id uuid.UUID, target domain.QuoteStatus) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	if !s.isValidTransition(quote.Status, target) {
		return nil, ErrInvalidQuoteTransition
	}

	if err := s.quoteRepo.UpdateStatus(ctx, id, target); err != nil {
		return nil, fmt.Errorf("failed to update quote status: %w", err)
	}

	quote, err = s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

func (s *QuoteService) isValidTransition(from, to domain.QuoteStatus) bool {
	for _, valid := range validQuoteTransitions[from] {
		if valid == to {
			return true
		}
	}
	return false
}

func (s *QuoteService) notifyDecision(ctx context.Context, quote *domain.QuoteDTO, kind domain.NotificationType, title, message string) {
	if s.notificationRepo == nil || quote.CreatedByID == nil {
		return
	}

	notification := &domain.Notification{
		UserID:     *quote.CreatedByID,
		Type:       string(kind),
		Title:      title,
		Message:    message,
		EntityID:   &quote.ID,
		EntityType: "quote",
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to create quote decision notification", zap.Error(err))
	}
}
