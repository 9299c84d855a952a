package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/authz"
	"github.com/nordvik-interiors/ops-api/internal/database"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an isolated in-memory database per test and
// migrates the full schema into it
func SetupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	require.NoError(t, database.AutoMigrate(db), "Failed to migrate test schema")

	return db
}

// CreateTestUser creates an active staff member with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, name string, role domain.AdminRole) *domain.AdminUser {
	user := &domain.AdminUser{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestClient creates a pipeline client in the given stage with a
// single selection item
func CreateTestClient(t *testing.T, db *gorm.DB, name string, stage domain.PipelineStage) *domain.PipelineClient {
	price := 5000.0
	client := &domain.PipelineClient{
		ProfileID:      uuid.New(),
		Name:           name,
		Email:          fmt.Sprintf("%s@example.com", uuid.NewString()),
		Stage:          stage,
		Priority:       domain.PriorityNormal,
		Source:         domain.SourceOther,
		SelectionCount: 1,
		SelectionValue: 5000,
		SubmittedAt:    time.Now(),
		Items: []domain.SelectionItem{
			{Name: "Oak dining table", Quantity: 1, UnitPrice: &price},
		},
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestLead creates a marketing lead outside the pipeline
func CreateTestLead(t *testing.T, db *gorm.DB, name string) *domain.MarketingLead {
	lead := &domain.MarketingLead{
		ProfileID: uuid.New(),
		Name:      name,
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()),
		Interest:  domain.InterestWarm,
		Status:    domain.MarketingStatusRegistered,
		Source:    domain.SourceWebsiteSignup,
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

// CreateTestOrder creates a pending order for the given client
func CreateTestOrder(t *testing.T, db *gorm.DB, clientID uuid.UUID) *domain.Order {
	order := &domain.Order{
		ClientID:    clientID,
		OrderNumber: fmt.Sprintf("O-TEST-%s", uuid.NewString()[:8]),
		Status:      domain.OrderStatusPending,
		Amount:      5000,
		Items: []domain.OrderItem{
			{Name: "Oak dining table", Quantity: 1, UnitPrice: 5000},
		},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

// ContextWithUser returns a context carrying the given staff member as
// the authenticated user
func ContextWithUser(user *domain.AdminUser) context.Context {
	return authz.WithUserContext(context.Background(), &authz.UserContext{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	})
}
