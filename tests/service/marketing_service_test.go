package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/config"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/nordvik-interiors/ops-api/internal/mail"
	"github.com/nordvik-interiors/ops-api/internal/repository"
	"github.com/nordvik-interiors/ops-api/internal/service"
	"github.com/nordvik-interiors/ops-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newMarketingService(db *gorm.DB) *service.MarketingService {
	return service.NewMarketingService(
		repository.NewMarketingLeadRepository(db),
		repository.NewOutreachRepository(db),
		newPipelineService(db),
		mail.NewMailer(&config.SMTPConfig{Enabled: false}, zap.NewNop()),
		zap.NewNop(),
	)
}

func TestRegisterLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMarketingService(db)

	lead, err := svc.Register(context.Background(), &domain.RegisterLeadRequest{
		ProfileID: uuid.New(),
		Name:      "Astrid Moen",
		Email:     "astrid@example.com",
		Interest:  "hot",
		Source:    "showroom_visit",
		Tags:      []string{"newsletter", "sofa-campaign"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.InterestHot, lead.Interest)
	assert.Equal(t, domain.MarketingStatusRegistered, lead.Status)
	assert.Equal(t, domain.SourceShowroomVisit, lead.Source)
	assert.Equal(t, []string{"newsletter", "sofa-campaign"}, lead.Tags)
}

func TestUpdateInterest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMarketingService(db)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "Astrid Moen")

	updated, err := svc.UpdateInterest(ctx, lead.ID, &domain.UpdateInterestRequest{Interest: "cold"})
	require.NoError(t, err)
	assert.Equal(t, domain.InterestCold, updated.Interest)

	// Unknown values degrade to warm rather than failing
	updated, err = svc.UpdateInterest(ctx, lead.ID, &domain.UpdateInterestRequest{Interest: "scorching"})
	require.NoError(t, err)
	assert.Equal(t, domain.InterestWarm, updated.Interest)

	_, err = svc.UpdateInterest(ctx, uuid.New(), &domain.UpdateInterestRequest{Interest: "hot"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestLogOutreach(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMarketingService(db)

	user := testutil.CreateTestUser(t, db, "Nora Lie", domain.RoleSales)
	ctx := testutil.ContextWithUser(user)
	lead := testutil.CreateTestLead(t, db, "Astrid Moen")

	entry, err := svc.LogOutreach(ctx, lead.ID, &domain.LogOutreachRequest{
		Type:    "call",
		Outcome: "no_answer",
		Note:    "Left a voicemail",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutreachCall, entry.Type)
	require.NotNil(t, entry.CreatedByID)
	assert.Equal(t, user.ID, *entry.CreatedByID)

	// The activity stamp moves so the follow-up counter resets
	var reloaded domain.MarketingLead
	require.NoError(t, db.First(&reloaded, "id = ?", lead.ID).Error)
	require.NotNil(t, reloaded.LastActivityAt)
	assert.WithinDuration(t, time.Now(), *reloaded.LastActivityAt, 5*time.Second)

	history, err := svc.GetOutreachHistory(ctx, lead.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestConvertLead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMarketingService(db)
	ctx := context.Background()

	lead := testutil.CreateTestLead(t, db, "Astrid Moen")

	price := 8000.0
	client, err := svc.ConvertLead(ctx, lead.ID, &domain.ConvertLeadRequest{
		Items: []domain.CreateSelectionItemRequest{
			{Name: "Armchair", Quantity: 2, UnitPrice: &price},
		},
	})
	require.NoError(t, err)

	// The client carries the lead's profile and channel
	assert.Equal(t, lead.ProfileID, client.ProfileID)
	assert.Equal(t, lead.Name, client.Name)
	assert.Equal(t, domain.SourceWebsiteSignup, client.Source)
	assert.Equal(t, domain.StageSubmitted, client.Stage)
	assert.Equal(t, 16000.0, client.SelectionValue)

	// A submitted profile drops out of every marketing listing
	leads, err := svc.List(ctx, 1, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), leads.Total)

	// Converting twice hits the one-submission-per-profile rule
	_, err = svc.ConvertLead(ctx, lead.ID, &domain.ConvertLeadRequest{
		Items: []domain.CreateSelectionItemRequest{
			{Name: "Armchair", Quantity: 1, UnitPrice: &price},
		},
	})
	assert.ErrorIs(t, err, service.ErrAlreadySubmitted)
}

func TestMarketingListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMarketingService(db)
	ctx := context.Background()

	hot := testutil.CreateTestLead(t, db, "Astrid Moen")
	require.NoError(t, db.Model(hot).Update("interest", domain.InterestHot).Error)
	testutil.CreateTestLead(t, db, "Bendik Aas")

	interest := domain.InterestHot
	result, err := svc.List(ctx, 1, 20, &repository.MarketingLeadFilters{Interest: &interest})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}

func TestMarketingStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMarketingService(db)
	ctx := context.Background()

	// Never contacted, needs follow-up
	testutil.CreateTestLead(t, db, "Astrid Moen")

	// Contacted recently
	fresh := testutil.CreateTestLead(t, db, "Bendik Aas")
	require.NoError(t, db.Model(fresh).Update("last_activity_at", time.Now()).Error)

	// Contacted too long ago
	stale := testutil.CreateTestLead(t, db, "Cecilie Vik")
	require.NoError(t, db.Model(stale).Update("last_activity_at", time.Now().Add(-30*24*time.Hour)).Error)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.NeedsFollowUp)
	assert.Equal(t, 3, stats.ByInterest[domain.InterestWarm])
	assert.Equal(t, 3, stats.BySource[domain.SourceWebsiteSignup])
}
