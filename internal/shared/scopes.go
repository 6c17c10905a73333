package shared

// Core platform permissions.
const (
	PermUsersView = "users.view"
	PermUsersEdit = "users.edit"

	PermRolesView = "roles.view"

	PermPermissionsView = "permissions.view"
	PermPermissionsEdit = "permissions.edit"

	PermRulesView = "rules.view"
	PermRulesEdit = "rules.edit"
)

// CoreScopes lists all permissions related to the core platform.
func CoreScopes() []string {
	return []string{
		PermUsersView,
		PermUsersEdit,
		PermRolesView,
		PermPermissionsView,
		PermPermissionsEdit,
		PermRulesView,
		PermRulesEdit,
	}
}
