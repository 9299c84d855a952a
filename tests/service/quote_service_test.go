package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/internal/service"
	"github.com/nordvik-interiors/ops-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newQuoteService(db *gorm.DB) *service.QuoteService {
	return service.NewQuoteService(
		repository.NewQuoteRepository(db),
		repository.NewPipelineClientRepository(db),
		repository.NewNotificationRepository(db),
		zap.NewNop(),
	)
}

func createDraftQuote(t *testing.T, ctx context.Context, svc *service.QuoteService, clientID uuid.UUID) *domain.QuoteDTO {
	quote, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		ClientID: clientID,
		Items: []domain.CreateQuoteItemRequest{
			{Name: "Dining chair", Quantity: 2, UnitPrice: 2450},
			{Name: "Sofa", Quantity: 1, UnitPrice: 10000},
		},
		DiscountAmount: 900,
	})
	require.NoError(t, err)
	return quote
}

func TestQuoteAcceptWithoutRecordedView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQuoteService(db)

	user := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	ctx := testutil.ContextWithUser(user)
	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)

	quote := createDraftQuote(t, ctx, svc, client.ID)
	_, err := svc.Send(ctx, quote.ID)
	require.NoError(t, err)

	// A phoned-in acceptance decides a sent quote with no viewed step
	accepted, err := svc.Accept(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.RespondedAt)
}

func TestQuoteCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQuoteService(db)

	user := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	ctx := testutil.ContextWithUser(user)
	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageMeetingScheduled)

	quote := createDraftQuote(t, ctx, svc, client.ID)
	assert.Equal(t, domain.QuoteStatusDraft, quote.Status)
	assert.Equal(t, 14900.0, quote.Subtotal)
	assert.Equal(t, 14000.0, quote.Total)
	assert.Regexp(t, `^Q-\d{4}-0001$`, quote.QuoteNumber)
	require.NotNil(t, quote.CreatedByID)
	assert.Equal(t, user.ID, *quote.CreatedByID)

	second := createDraftQuote(t, ctx, svc, client.ID)
	assert.Regexp(t, `^Q-\d{4}-0002$`, second.QuoteNumber)
}

func TestQuoteCreateUnknownClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQuoteService(db)

	_, err := svc.Create(context.Background(), &domain.CreateQuoteRequest{
		ClientID: uuid.New(),
		Items:    []domain.CreateQuoteItemRequest{{Name: "Sofa", Quantity: 1, UnitPrice: 100}},
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestQuoteLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQuoteService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)
	quote := createDraftQuote(t, ctx, svc, client.ID)

	// Accepting a draft skips the send step and is refused
	_, err := svc.Accept(ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrInvalidQuoteTransition)

	sent, err := svc.Send(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusSent, sent.Status)
	assert.NotNil(t, sent.SentAt)

	// Sending twice is refused
	_, err = svc.Send(ctx, quote.ID)
	assert.ErrorIs(t, err, service.ErrInvalidQuoteTransition)

	viewed, err := svc.MarkViewed(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusViewed, viewed.Status)
	assert.NotNil(t, viewed.ViewedAt)

	accepted, err := svc.Accept(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.RespondedAt)

	// Accepting writes the total onto the client as the value override
	var reloaded domain.PipelineClient
	require.NoError(t, db.First(&reloaded, "id = ?", client.ID).Error)
	require.NotNil(t, reloaded.QuoteValue)
	assert.Equal(t, 14000.0, *reloaded.QuoteValue)

	// Accepted is terminal
	_, err = svc.Reject(ctx, quote.ID, &domain.RejectQuoteRequest{LossReason: "price_too_high"})
	assert.ErrorIs(t, err, service.ErrInvalidQuoteTransition)
}

func TestQuoteReject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQuoteService(db)

	user := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	ctx := testutil.ContextWithUser(user)
	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)

	quote := createDraftQuote(t, ctx, svc, client.ID)
	_, err := svc.Send(ctx, quote.ID)
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, quote.ID, &domain.RejectQuoteRequest{LossReason: "price_too_high"})
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusRejected, rejected.Status)
	require.NotNil(t, rejected.LossReason)
	assert.Equal(t, domain.LossReasonPriceTooHigh, *rejected.LossReason)

	// The creator hears about the decision
	var notifications []domain.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, string(domain.NotificationQuoteRejected), notifications[0].Type)
}

func TestQuoteRejectUnknownReason(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQuoteService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)
	quote := createDraftQuote(t, ctx, svc, client.ID)
	_, err := svc.Send(ctx, quote.ID)
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, quote.ID, &domain.RejectQuoteRequest{LossReason: "bad vibes"})
	require.NoError(t, err)
	require.NotNil(t, rejected.LossReason)
	assert.Equal(t, domain.LossReasonOther, *rejected.LossReason)
}

func TestQuoteUpdateOnlyDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQuoteService(db)
	ctx := context.Background()

	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)
	quote := createDraftQuote(t, ctx, svc, client.ID)

	updated, err := svc.Update(ctx, quote.ID, &domain.UpdateQuoteRequest{
		Items: []domain.CreateQuoteItemRequest{
			{Name: "Sofa", Quantity: 1, UnitPrice: 12000},
		},
		DiscountAmount: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 12000.0, updated.Total)
	assert.Len(t, updated.Items, 1)

	_, err = svc.Send(ctx, quote.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, quote.ID, &domain.UpdateQuoteRequest{
		Items:  []domain.CreateQuoteItemRequest{{Name: "Sofa", Quantity: 1, UnitPrice: 1}},
	})
	assert.ErrorIs(t, err, service.ErrQuoteNotEditable)
}

func TestExpireOverdue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newQuoteService(db)

	user := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	ctx := testutil.ContextWithUser(user)
	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)

	past := time.Now().Add(-24 * time.Hour)
	overdue, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		ClientID:   client.ID,
		Items:      []domain.CreateQuoteItemRequest{{Name: "Sofa", Quantity: 1, UnitPrice: 10000}},
		ValidUntil: &past,
	})
	require.NoError(t, err)
	_, err = svc.Send(ctx, overdue.ID)
	require.NoError(t, err)

	// Still valid, must survive the sweep
	future := time.Now().Add(24 * time.Hour)
	open, err := svc.Create(ctx, &domain.CreateQuoteRequest{
		ClientID:   client.ID,
		Items:      []domain.CreateQuoteItemRequest{{Name: "Lamp", Quantity: 1, UnitPrice: 900}},
		ValidUntil: &future,
	})
	require.NoError(t, err)
	_, err = svc.Send(ctx, open.ID)
	require.NoError(t, err)

	// Drafts never expire, even past their window
	draft := createDraftQuote(t, ctx, svc, client.ID)
	require.NoError(t, db.Model(&domain.Quote{}).Where("id = ?", draft.ID).Update("valid_until", past).Error)

	expired, err := svc.ExpireOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	reloaded, err := svc.GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusExpired, reloaded.Status)

	stillOpen, err := svc.GetByID(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusSent, stillOpen.Status)

	// The creator is told the quote lapsed
	var notifications []domain.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, string(domain.NotificationQuoteExpired)).Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}
