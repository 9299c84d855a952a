package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createQuote(t *testing.T, db *gorm.DB, status domain.QuoteStatus, validUntil *time.Time) *domain.Quote {
	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageQuoted)
	quote := &domain.Quote{
		ClientID:    client.ID,
		QuoteNumber: "Q-TEST",
		Status:      status,
		Subtotal:    10000,
		Total:       10000,
		ValidUntil:  validUntil,
	}
	require.NoError(t, db.Create(quote).Error)
	return quote
}

func TestNextQuoteNumberResetsPerYear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteRepository(db)
	ctx := context.Background()
	now := time.Now()

	number, err := repo.NextQuoteNumber(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "Q-"+now.Format("2006")+"-0001", number)

	createQuote(t, db, domain.QuoteStatusDraft, nil)

	number, err = repo.NextQuoteNumber(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "Q-"+now.Format("2006")+"-0002", number)

	// A quote from a previous year does not advance this year's sequence
	old := createQuote(t, db, domain.QuoteStatusAccepted, nil)
	lastYear := time.Date(now.Year()-1, time.June, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(old).Update("created_at", lastYear).Error)

	number, err = repo.NextQuoteNumber(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "Q-"+now.Format("2006")+"-0002", number)
}

func TestGetExpiredCandidates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteRepository(db)
	ctx := context.Background()
	now := time.Now()

	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	overdueSent := createQuote(t, db, domain.QuoteStatusSent, &past)
	overdueViewed := createQuote(t, db, domain.QuoteStatusViewed, &past)
	createQuote(t, db, domain.QuoteStatusSent, &future)
	createQuote(t, db, domain.QuoteStatusSent, nil)
	createQuote(t, db, domain.QuoteStatusDraft, &past)
	createQuote(t, db, domain.QuoteStatusAccepted, &past)

	candidates, err := repo.GetExpiredCandidates(ctx, now)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	found := map[string]bool{}
	for _, q := range candidates {
		found[q.ID.String()] = true
	}
	assert.True(t, found[overdueSent.ID.String()])
	assert.True(t, found[overdueViewed.ID.String()])
}

func TestMarkExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteRepository(db)
	ctx := context.Background()

	past := time.Now().Add(-24 * time.Hour)
	quote := createQuote(t, db, domain.QuoteStatusSent, &past)

	require.NoError(t, repo.MarkExpired(ctx, quote.ID))

	reloaded, err := repo.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusExpired, reloaded.Status)

	// Once expired it no longer qualifies as a candidate
	candidates, err := repo.GetExpiredCandidates(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
