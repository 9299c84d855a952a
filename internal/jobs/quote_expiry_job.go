package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QuoteExpiryJobName is the name of the quote expiry sweep job
const QuoteExpiryJobName = "quote_expiry"

// QuoteExpiryService defines the quote sweep the job calls. An
// interface keeps the job package from importing the service package.
type QuoteExpiryService interface {
	// ExpireOverdue expires sent and viewed quotes whose validity window
	// elapsed without an answer. Returns how many were expired.
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// QuoteExpiryJob sweeps outstanding quotes past their valid-until date
type QuoteExpiryJob struct {
	quoteService QuoteExpiryService
	logger       *zap.Logger
	timeout      time.Duration
}

func NewQuoteExpiryJob(quoteService QuoteExpiryService, logger *zap.Logger, timeout time.Duration) *QuoteExpiryJob {
	return &QuoteExpiryJob{
		quoteService: quoteService,
		logger:       logger,
		timeout:      timeout,
	}
}

// Run executes the expiry sweep. Called by the scheduler according to
// the configured cron expression.
func (j *QuoteExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	expired, err := j.quoteService.ExpireOverdue(ctx, start)
	if err != nil {
		j.logger.Error("quote expiry sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if expired > 0 {
		j.logger.Info("quote expiry sweep completed",
			zap.Int("expired", expired),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterQuoteExpiryJob registers the expiry sweep with the scheduler
func RegisterQuoteExpiryJob(scheduler *Scheduler, quoteService QuoteExpiryService, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewQuoteExpiryJob(quoteService, logger, timeout)
	return scheduler.AddJob(QuoteExpiryJobName, cronExpr, job.Run)
}
