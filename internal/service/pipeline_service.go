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

type PipelineService struct {
	clientRepo       *repository.PipelineClientRepository
	historyRepo      *repository.StageHistoryRepository
	paymentRepo      *repository.PaymentRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
	db               *gorm.DB
}

func NewPipelineService(
	clientRepo *repository.PipelineClientRepository,
	historyRepo *repository.StageHistoryRepository,
	paymentRepo *repository.PaymentRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *PipelineService {
	return &PipelineService{
		clientRepo:       clientRepo,
		historyRepo:      historyRepo,
		paymentRepo:      paymentRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
		db:               db,
	}
}

// Create registers a submitted selection as a new pipeline client. A
// profile can hold at most one pipeline client, so a second submission
// for the same profile is a conflict.
func (s *PipelineService) Create(ctx context.Context, req *domain.CreatePipelineClientRequest) (*domain.PipelineClientDTO, error) {
	if existing, err := s.clientRepo.GetByProfileID(ctx, req.ProfileID); err == nil && existing != nil {
		return nil, ErrConflict
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing client: %w", err)
	}

	items := make([]domain.SelectionItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.SelectionItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	client := &domain.PipelineClient{
		ProfileID:      req.ProfileID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Stage:          domain.StageSubmitted,
		Priority:       domain.NormalizePriority(req.Priority),
		Source:         domain.NormalizeSource(req.Source),
		SelectionCount: len(items),
		SelectionValue: domain.SelectionValue(items),
		SubmittedAt:    time.Now(),
		Notes:          req.Notes,
		Items:          items,
	}

	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, fmt.Errorf("failed to create pipeline client: %w", err)
	}

	if err := s.recordTransition(ctx, client.ID, nil, domain.StageSubmitted, "Selection submitted"); err != nil {
		s.logger.Warn("failed to record initial stage history", zap.Error(err))
	}

	client, err := s.clientRepo.GetByID(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload pipeline client: %w", err)
	}

	dto := mapper.ToPipelineClientDTO(client)
	return &dto, nil
}

func (s *PipelineService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pipeline client: %w", err)
	}

	dto := mapper.ToPipelineClientDTO(client)
	return &dto, nil
}

func (s *PipelineService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdatePipelineClientRequest) (*domain.PipelineClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pipeline client: %w", err)
	}

	client.Name = req.Name
	client.Email = req.Email
	client.Phone = req.Phone
	if req.Priority != "" {
		client.Priority = domain.NormalizePriority(req.Priority)
	}
	client.QuoteValue = req.QuoteValue
	client.MeetingAt = req.MeetingAt
	client.Notes = req.Notes

	if req.AssignedToID != nil {
		client.AssignedToID = req.AssignedToID
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update pipeline client: %w", err)
	}

	dto := mapper.ToPipelineClientDTO(client)
	return &dto, nil
}

func (s *PipelineService) List(ctx context.Context, page, pageSize int, filters *repository.PipelineClientFilters, sortBy repository.PipelineSortOption) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	clients, total, err := s.clientRepo.List(ctx, page, pageSize, filters, sortBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipeline clients: %w", err)
	}

	dtos := make([]domain.PipelineClientDTO, len(clients))
	for i, client := range clients {
		dtos[i] = mapper.ToPipelineClientDTO(&client)
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

// GetBoard returns the kanban view: one column per funnel stage in
// order, lost clients excluded, plus the headline stats
func (s *PipelineService) GetBoard(ctx context.Context) (*domain.BoardDTO, error) {
	grouped, err := s.clientRepo.GetBoard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	columns := make([]domain.BoardColumnDTO, 0, len(domain.StageOrder))
	for _, stage := range domain.StageOrder {
		clients := grouped[stage]
		dtos := make([]domain.PipelineClientDTO, len(clients))
		var value float64
		for i, client := range clients {
			dtos[i] = mapper.ToPipelineClientDTO(&client)
			value += domain.EffectiveValue(client.QuoteValue, client.SelectionValue)
		}
		columns = append(columns, domain.BoardColumnDTO{
			Stage:   stage,
			Clients: dtos,
			Count:   len(clients),
			Value:   value,
		})
	}

	all, err := s.clientRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients for stats: %w", err)
	}

	return &domain.BoardDTO{
		Columns: columns,
		Stats:   ComputePipelineStats(all, time.Now()),
	}, nil
}

// MoveStage resolves a board drop. The target is either a column
// (stage name) or another card, in which case the client moves to that
// card's stage. A same-stage drop is a no-op; a drop may land on any
// funnel stage, forward or backward. Lost is never a drop target.
func (s *PipelineService) MoveStage(ctx context.Context, id uuid.UUID, req *domain.MoveStageRequest) (*domain.PipelineClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pipeline client: %w", err)
	}

	if client.Stage == domain.StageLost {
		return nil, ErrTerminalStage
	}

	target, err := s.resolveTargetStage(ctx, req)
	if err != nil {
		return nil, err
	}

	if target == client.Stage {
		dto := mapper.ToPipelineClientDTO(client)
		return &dto, nil
	}

	return s.applyStageChange(ctx, client, target, "Moved on board")
}

// AdvanceStage moves a client one step forward in the funnel order
func (s *PipelineService) AdvanceStage(ctx context.Context, id uuid.UUID) (*domain.PipelineClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pipeline client: %w", err)
	}

	next, ok := client.Stage.Next()
	if !ok {
		return nil, ErrTerminalStage
	}

	return s.applyStageChange(ctx, client, next, "Advanced to next stage")
}

// MarkLost moves a non-terminal client to the lost state with a reason
func (s *PipelineService) MarkLost(ctx context.Context, id uuid.UUID, req *domain.MarkLostRequest) (*domain.PipelineClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pipeline client: %w", err)
	}

	if client.Stage.IsTerminal() {
		return nil, ErrTerminalStage
	}

	oldStage := client.Stage
	if err := s.clientRepo.MarkLost(ctx, id, req.Reason); err != nil {
		return nil, fmt.Errorf("failed to mark client as lost: %w", err)
	}

	if err := s.recordTransition(ctx, id, &oldStage, domain.StageLost, req.Reason); err != nil {
		s.logger.Warn("failed to record stage history", zap.Error(err))
	}

	s.notifyStageChange(ctx, client, oldStage, domain.StageLost)

	client, err = s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload pipeline client: %w", err)
	}

	dto := mapper.ToPipelineClientDTO(client)
	return &dto, nil
}

// RecordPayment records a settled payment against a client and
// recomputes the denormalized milestone totals
func (s *PipelineService) RecordPayment(ctx context.Context, clientID uuid.UUID, req *domain.RecordPaymentRequest) (*domain.PipelineClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pipeline client: %w", err)
	}

	now := time.Now()
	payment := &domain.Payment{
		ClientID:  client.ID,
		Type:      domain.NormalizePaymentType(req.Type),
		Status:    domain.PaymentStatusPaid,
		Amount:    req.Amount,
		Reference: req.Reference,
		PaidAt:    &now,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	payments, err := s.paymentRepo.GetByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	if err := s.clientRepo.UpdatePaymentTotals(ctx, client.ID, domain.SumPayments(payments)); err != nil {
		return nil, fmt.Errorf("failed to update payment totals: %w", err)
	}

	client, err = s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload pipeline client: %w", err)
	}

	dto := mapper.ToPipelineClientDTO(client)
	return &dto, nil
}

// GetStageHistory returns the stage trail for a client, newest first
func (s *PipelineService) GetStageHistory(ctx context.Context, clientID uuid.UUID) ([]domain.StageHistoryDTO, error) {
	entries, err := s.historyRepo.GetByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage history: %w", err)
	}

	dtos := make([]domain.StageHistoryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = mapper.ToStageHistoryDTO(&entry)
	}
	return dtos, nil
}

// GetStats returns the pipeline stat cards
func (s *PipelineService) GetStats(ctx context.Context) (*domain.PipelineStatsDTO, error) {
	clients, err := s.clientRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients for stats: %w", err)
	}

	stats := ComputePipelineStats(clients, time.Now())
	return &stats, nil
}

func (s *PipelineService) resolveTargetStage(ctx context.Context, req *domain.MoveStageRequest) (domain.PipelineStage, error) {
	if req.TargetCardID != nil {
		target, err := s.clientRepo.GetByID(ctx, *req.TargetCardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrNotFound
			}
			return "", fmt.Errorf("failed to resolve target card: %w", err)
		}
		if target.Stage == domain.StageLost {
			return "", ErrInvalidTransition
		}
		return target.Stage, nil
	}

	stage := domain.PipelineStage(req.TargetStage)
	if !stage.IsValid() || stage == domain.StageLost {
		return "", ErrInvalidStage
	}
	return stage, nil
}

func (s *PipelineService) applyStageChange(ctx context.Context, client *domain.PipelineClient, target domain.PipelineStage, note string) (*domain.PipelineClientDTO, error) {
	oldStage := client.Stage

	if err := s.clientRepo.UpdateStage(ctx, client.ID, target); err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}

	if err := s.recordTransition(ctx, client.ID, &oldStage, target, note); err != nil {
		s.logger.Warn("failed to record stage history", zap.Error(err))
	}

	s.notifyStageChange(ctx, client, oldStage, target)

	reloaded, err := s.clientRepo.GetByID(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload pipeline client: %w", err)
	}

	dto := mapper.ToPipelineClientDTO(reloaded)
	return &dto, nil
}

func (s *PipelineService) recordTransition(ctx context.Context, clientID uuid.UUID, from *domain.PipelineStage, to domain.PipelineStage, note string) error {
	entry := &domain.StageHistory{
		ClientID:  clientID,
		FromStage: from,
		ToStage:   to,
		Notes:     note,
		ChangedAt: time.Now(),
	}
	if userCtx, ok := authz.FromContext(ctx); ok {
		entry.ChangedByID = &userCtx.UserID
		entry.ChangedByName = userCtx.Name
	}
	return s.historyRepo.Create(ctx, entry)
}

// notifyStageChange tells the assigned user about a stage move made by
// someone else
func (s *PipelineService) notifyStageChange(ctx context.Context, client *domain.PipelineClient, from, to domain.PipelineStage) {
	if s.notificationRepo == nil || client.AssignedToID == nil {
		return
	}
	if userCtx, ok := authz.FromContext(ctx); ok && userCtx.UserID == *client.AssignedToID {
		return
	}

	notification := &domain.Notification{
		UserID:     *client.AssignedToID,
		Type:       string(domain.NotificationStageChanged),
		Title:      "Client moved",
		Message:    fmt.Sprintf("%s moved from %s to %s", client.Name, from, to),
		EntityID:   &client.ID,
		EntityType: "pipeline_client",
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to create stage change notification", zap.Error(err))
	}
}
