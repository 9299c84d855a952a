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
)

func TestLeadListingExcludesSubmittedProfiles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMarketingLeadRepository(db)
	ctx := context.Background()

	browsing := testutil.CreateTestLead(t, db, "Silje Moen")
	submitted := testutil.CreateTestLead(t, db, "Kari Hansen")

	// The same profile submits a selection and enters the pipeline
	client := testutil.CreateTestClient(t, db, "Kari Hansen", domain.StageSubmitted)
	require.NoError(t, db.Model(client).Update("profile_id", submitted.ProfileID).Error)

	leads, total, err := repo.List(ctx, 1, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, leads, 1)
	assert.Equal(t, browsing.ID, leads[0].ID)

	all, err := repo.GetAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, browsing.ID, all[0].ID)
}

func TestGetInactiveSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMarketingLeadRepository(db)
	ctx := context.Background()

	never := testutil.CreateTestLead(t, db, "Never Contacted")
	stale := testutil.CreateTestLead(t, db, "Gone Quiet")
	fresh := testutil.CreateTestLead(t, db, "Recently Active")

	staleAt := time.Now().Add(-30 * 24 * time.Hour)
	freshAt := time.Now().Add(-24 * time.Hour)
	require.NoError(t, db.Model(stale).Update("last_activity_at", staleAt).Error)
	require.NoError(t, db.Model(fresh).Update("last_activity_at", freshAt).Error)

	cutoff := time.Now().Add(-14 * 24 * time.Hour)
	inactive, err := repo.GetInactiveSince(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, inactive, 2)

	found := map[string]bool{}
	for _, lead := range inactive {
		found[lead.Name] = true
	}
	assert.True(t, found[never.Name])
	assert.True(t, found[stale.Name])
}
