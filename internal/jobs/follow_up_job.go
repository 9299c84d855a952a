package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"go.uber.org/zap"
)

// FollowUpJobName is the name of the lead follow-up reminder job
const FollowUpJobName = "lead_follow_up"

// LeadFollowUpSource provides the leads that have gone quiet
type LeadFollowUpSource interface {
	GetInactiveSince(ctx context.Context, cutoff time.Time) ([]domain.MarketingLead, error)
}

// FollowUpNotifier fans a reminder out to the roles that work leads
type FollowUpNotifier interface {
	NotifyRoles(ctx context.Context, roles []domain.AdminRole, build func(userID uuid.UUID) *domain.Notification) error
}

// FollowUpJob posts a daily digest reminding sales about marketing
// leads with no recorded activity inside the follow-up window
type FollowUpJob struct {
	leads        LeadFollowUpSource
	notifier     FollowUpNotifier
	followUpDays int
	logger       *zap.Logger
	timeout      time.Duration
}

func NewFollowUpJob(leads LeadFollowUpSource, notifier FollowUpNotifier, followUpDays int, logger *zap.Logger, timeout time.Duration) *FollowUpJob {
	return &FollowUpJob{
		leads:        leads,
		notifier:     notifier,
		followUpDays: followUpDays,
		logger:       logger,
		timeout:      timeout,
	}
}

// Run executes the follow-up sweep. One digest notification per user,
// not one per lead, so a quiet week does not flood the bell.
func (j *FollowUpJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	cutoff := start.AddDate(0, 0, -j.followUpDays)

	stale, err := j.leads.GetInactiveSince(ctx, cutoff)
	if err != nil {
		j.logger.Error("lead follow-up sweep failed", zap.Error(err))
		return
	}

	if len(stale) == 0 {
		return
	}

	message := fmt.Sprintf("%d marketing leads have had no activity for %d days or more", len(stale), j.followUpDays)
	err = j.notifier.NotifyRoles(ctx,
		[]domain.AdminRole{domain.RoleManager, domain.RoleSales},
		func(userID uuid.UUID) *domain.Notification {
			return &domain.Notification{
				UserID:  userID,
				Type:    string(domain.NotificationFollowUpDue),
				Title:   "Leads need follow-up",
				Message: message,
			}
		})
	if err != nil {
		j.logger.Error("failed to create follow-up notifications", zap.Error(err))
		return
	}

	j.logger.Info("lead follow-up sweep completed",
		zap.Int("stale_leads", len(stale)),
		zap.Duration("duration", time.Since(start)))
}

// RegisterFollowUpJob registers the follow-up sweep with the scheduler
func RegisterFollowUpJob(scheduler *Scheduler, leads LeadFollowUpSource, notifier FollowUpNotifier, followUpDays int, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewFollowUpJob(leads, notifier, followUpDays, logger, timeout)
	return scheduler.AddJob(FollowUpJobName, cronExpr, job.Run)
}
