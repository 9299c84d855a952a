package authz

import "github.com/nordvik-interiors/ops-api/internal/domain"

// Section is a named area of the dashboard
type Section string

const (
	SectionDashboard     Section = "dashboard"
	SectionClients       Section = "clients"
	SectionQuotes        Section = "quotes"
	SectionOrders        Section = "orders"
	SectionDeliveries    Section = "deliveries"
	SectionTasks         Section = "tasks"
	SectionTeam          Section = "team"
	SectionNotifications Section = "notifications"
	SectionSettings      Section = "settings"
)

// Action is a fine-grained permission name. The admin role holds the
// wildcard and passes every check.
type Action string

const (
	ActionWildcard Action = "*"

	ActionClientsView    Action = "clients:view"
	ActionClientsEdit    Action = "clients:edit"
	ActionClientsAssign  Action = "clients:assign"
	ActionLeadsView      Action = "leads:view"
	ActionLeadsEdit      Action = "leads:edit"
	ActionOutreachLog    Action = "outreach:log"
	ActionPaymentsRecord Action = "payments:record"

	ActionQuotesView   Action = "quotes:view"
	ActionQuotesCreate Action = "quotes:create"
	ActionQuotesEdit   Action = "quotes:edit"
	ActionQuotesSend   Action = "quotes:send"

	ActionOrdersView         Action = "orders:view"
	ActionOrdersEdit         Action = "orders:edit"
	ActionDeliveriesView     Action = "deliveries:view"
	ActionDeliveriesSchedule Action = "deliveries:schedule"
	ActionDeliveriesEdit     Action = "deliveries:edit"

	ActionTasksView   Action = "tasks:view"
	ActionTasksCreate Action = "tasks:create"
	ActionTasksEdit   Action = "tasks:edit"

	ActionTeamView   Action = "team:view"
	ActionTeamManage Action = "team:manage"

	ActionStatsView      Action = "stats:view"
	ActionExportDownload Action = "export:download"
	ActionSettingsManage Action = "settings:manage"
)

// sectionRoles maps each dashboard section to the roles allowed to see
// it. A section absent from the map is closed to everyone.
var sectionRoles = map[Section][]domain.AdminRole{
	SectionDashboard:     {domain.RoleAdmin, domain.RoleManager, domain.RoleSales, domain.RoleOperations},
	SectionNotifications: {domain.RoleAdmin, domain.RoleManager, domain.RoleSales, domain.RoleOperations},
	SectionTasks:         {domain.RoleAdmin, domain.RoleManager, domain.RoleSales, domain.RoleOperations},
	SectionClients:       {domain.RoleAdmin, domain.RoleManager, domain.RoleSales},
	SectionQuotes:        {domain.RoleAdmin, domain.RoleManager, domain.RoleSales},
	SectionOrders:        {domain.RoleAdmin, domain.RoleManager, domain.RoleOperations},
	SectionDeliveries:    {domain.RoleAdmin, domain.RoleManager, domain.RoleOperations},
	SectionTeam:          {domain.RoleAdmin, domain.RoleManager},
	SectionSettings:      {domain.RoleAdmin},
}

// rolePermissions maps each role to its fine-grained action set
var rolePermissions = map[domain.AdminRole][]Action{
	domain.RoleAdmin: {ActionWildcard},
	domain.RoleManager: {
		ActionClientsView, ActionClientsEdit, ActionClientsAssign,
		ActionLeadsView, ActionLeadsEdit, ActionOutreachLog, ActionPaymentsRecord,
		ActionQuotesView, ActionQuotesCreate, ActionQuotesEdit, ActionQuotesSend,
		ActionOrdersView, ActionOrdersEdit,
		ActionDeliveriesView, ActionDeliveriesSchedule, ActionDeliveriesEdit,
		ActionTasksView, ActionTasksCreate, ActionTasksEdit,
		ActionTeamView, ActionTeamManage,
		ActionStatsView, ActionExportDownload,
	},
	domain.RoleSales: {
		ActionClientsView, ActionClientsEdit,
		ActionLeadsView, ActionLeadsEdit, ActionOutreachLog, ActionPaymentsRecord,
		ActionQuotesView, ActionQuotesCreate, ActionQuotesEdit, ActionQuotesSend,
		ActionTasksView, ActionTasksCreate, ActionTasksEdit,
		ActionStatsView, ActionExportDownload,
	},
	domain.RoleOperations: {
		ActionOrdersView, ActionOrdersEdit,
		ActionDeliveriesView, ActionDeliveriesSchedule, ActionDeliveriesEdit,
		ActionTasksView, ActionTasksCreate, ActionTasksEdit,
		ActionStatsView,
	},
}

// CanAccessSection reports whether a role may see a section. Unknown
// sections are denied.
func CanAccessSection(role domain.AdminRole, section Section) bool {
	for _, r := range sectionRoles[section] {
		if r == role {
			return true
		}
	}
	return false
}

// Can reports whether a role may perform an action. Unknown actions
// are denied; the admin wildcard permits everything.
func Can(role domain.AdminRole, action Action) bool {
	for _, a := range rolePermissions[role] {
		if a == ActionWildcard || a == action {
			return true
		}
	}
	return false
}

// SectionsFor returns the sections visible to a role, in navigation order.
// Used by the auth handler so the client can build its navigation.
func SectionsFor(role domain.AdminRole) []Section {
	sections := []Section{}
	for _, section := range []Section{
		SectionDashboard, SectionClients, SectionQuotes, SectionOrders,
		SectionDeliveries, SectionTasks, SectionTeam, SectionNotifications,
		SectionSettings,
	} {
		if CanAccessSection(role, section) {
			sections = append(sections, section)
		}
	}
	return sections
}
