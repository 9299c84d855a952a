package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"go.uber.org/zap"
)

// DashboardService composes the landing page summary from the other
// collections
type DashboardService struct {
	clientRepo   *repository.PipelineClientRepository
	leadRepo     *repository.MarketingLeadRepository
	quoteRepo    *repository.QuoteRepository
	taskRepo     *repository.TaskRepository
	deliveryRepo *repository.DeliveryRepository
	logger       *zap.Logger
}

func NewDashboardService(
	clientRepo *repository.PipelineClientRepository,
	leadRepo *repository.MarketingLeadRepository,
	quoteRepo *repository.QuoteRepository,
	taskRepo *repository.TaskRepository,
	deliveryRepo *repository.DeliveryRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		clientRepo:   clientRepo,
		leadRepo:     leadRepo,
		quoteRepo:    quoteRepo,
		taskRepo:     taskRepo,
		deliveryRepo: deliveryRepo,
		logger:       logger,
	}
}

// GetSummary builds the stat cards for the dashboard landing page
func (s *DashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummaryDTO, error) {
	now := time.Now()

	clients, err := s.clientRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get pipeline clients: %w", err)
	}

	leads, err := s.leadRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get marketing leads: %w", err)
	}

	quotes, err := s.quoteRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get quotes: %w", err)
	}

	openTasks, err := s.taskRepo.CountOpen(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count open tasks: %w", err)
	}

	overdueTasks, err := s.taskRepo.CountOverdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	deliveriesToday, err := s.deliveryRepo.CountScheduledOn(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's deliveries: %w", err)
	}

	failedDeliveries, err := s.deliveryRepo.CountFailed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count failed deliveries: %w", err)
	}

	return &domain.DashboardSummaryDTO{
		Pipeline:         ComputePipelineStats(clients, now),
		Marketing:        ComputeMarketingStats(leads, now),
		Quotes:           ComputeQuoteStats(quotes),
		OpenTasks:        int(openTasks),
		OverdueTasks:     int(overdueTasks),
		DeliveriesToday:  int(deliveriesToday),
		FailedDeliveries: int(failedDeliveries),
	}, nil
}
