package authz_test

import (
	"testing"

	"github.com/nordvik-interiors/ops-api/internal/authz"
	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCanAccessSection(t *testing.T) {
	assert.True(t, authz.CanAccessSection(domain.RoleAdmin, authz.SectionSettings))
	assert.True(t, authz.CanAccessSection(domain.RoleManager, authz.SectionTeam))
	assert.True(t, authz.CanAccessSection(domain.RoleSales, authz.SectionClients))
	assert.True(t, authz.CanAccessSection(domain.RoleOperations, authz.SectionDeliveries))

	assert.False(t, authz.CanAccessSection(domain.RoleSales, authz.SectionOrders))
	assert.False(t, authz.CanAccessSection(domain.RoleSales, authz.SectionTeam))
	assert.False(t, authz.CanAccessSection(domain.RoleOperations, authz.SectionClients))
	assert.False(t, authz.CanAccessSection(domain.RoleOperations, authz.SectionQuotes))
	assert.False(t, authz.CanAccessSection(domain.RoleManager, authz.SectionSettings))

	// Unknown role and unknown section are both denied
	assert.False(t, authz.CanAccessSection(domain.AdminRole("intern"), authz.SectionDashboard))
	assert.False(t, authz.CanAccessSection(domain.RoleAdmin, authz.Section("warehouse")))
}

func TestCan(t *testing.T) {
	// Admin wildcard passes everything
	assert.True(t, authz.Can(domain.RoleAdmin, authz.ActionTeamManage))
	assert.True(t, authz.Can(domain.RoleAdmin, authz.ActionSettingsManage))

	assert.True(t, authz.Can(domain.RoleManager, authz.ActionTeamManage))
	assert.True(t, authz.Can(domain.RoleSales, authz.ActionExportDownload))
	assert.True(t, authz.Can(domain.RoleOperations, authz.ActionDeliveriesSchedule))

	assert.False(t, authz.Can(domain.RoleSales, authz.ActionTeamManage))
	assert.False(t, authz.Can(domain.RoleSales, authz.ActionOrdersEdit))
	assert.False(t, authz.Can(domain.RoleOperations, authz.ActionExportDownload))
	assert.False(t, authz.Can(domain.RoleOperations, authz.ActionQuotesView))
	assert.False(t, authz.Can(domain.RoleManager, authz.ActionSettingsManage))
}

func TestSectionsFor(t *testing.T) {
	assert.Equal(t, []authz.Section{
		authz.SectionDashboard, authz.SectionClients, authz.SectionQuotes,
		authz.SectionOrders, authz.SectionDeliveries, authz.SectionTasks,
		authz.SectionTeam, authz.SectionNotifications, authz.SectionSettings,
	}, authz.SectionsFor(domain.RoleAdmin))

	assert.Equal(t, []authz.Section{
		authz.SectionDashboard, authz.SectionClients, authz.SectionQuotes,
		authz.SectionTasks, authz.SectionNotifications,
	}, authz.SectionsFor(domain.RoleSales))

	assert.Equal(t, []authz.Section{
		authz.SectionDashboard, authz.SectionOrders, authz.SectionDeliveries,
		authz.SectionTasks, authz.SectionNotifications,
	}, authz.SectionsFor(domain.RoleOperations))

	assert.Empty(t, authz.SectionsFor(domain.AdminRole("intern")))
}

func TestUserContextHelpers(t *testing.T) {
	sales := &authz.UserContext{Role: domain.RoleSales}
	assert.False(t, sales.IsAdmin())
	assert.True(t, sales.HasAnyRole(domain.RoleSales, domain.RoleManager))
	assert.False(t, sales.HasAnyRole(domain.RoleAdmin))
	assert.True(t, sales.CanAccessSection(authz.SectionClients))
	assert.False(t, sales.Can(authz.ActionTeamManage))

	admin := &authz.UserContext{Role: domain.RoleAdmin}
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.Can(authz.ActionTeamManage))
}
