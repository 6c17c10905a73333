package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatewarden/gatewarden/internal/shared"
)

func TestIsAnonymous(t *testing.T) {
	var nilPrincipal *Principal
	assert.True(t, nilPrincipal.IsAnonymous())
	assert.True(t, Anonymous().IsAnonymous())
	assert.True(t, (&Principal{UserID: 0, Username: "ghost"}).IsAnonymous())
	assert.True(t, (&Principal{UserID: 5, Username: AnonymousUsername}).IsAnonymous())
	assert.False(t, (&Principal{UserID: 5, Username: "kim"}).IsAnonymous())
}

func TestIsSuperAdminReadsDirectRolesOnly(t *testing.T) {
	p := &Principal{UserID: 5, Username: "kim", DirectRoles: []string{shared.RoleAdmin}, Authorities: []string{shared.RoleSuperAdmin}}
	assert.False(t, p.IsSuperAdmin())

	p.DirectRoles = append(p.DirectRoles, shared.RoleSuperAdmin)
	assert.True(t, p.IsSuperAdmin())
}

func TestBuildPrincipalRegularUser(t *testing.T) {
	user := &User{
		ID:       10,
		Username: "kim",
		Email:    "kim@example.com",
		Roles: []RoleGrant{
			{Name: shared.RoleModerator, Permissions: []string{"users.view", "users.edit"}},
			{Name: shared.RoleUser, Permissions: []string{"users.view"}},
		},
	}

	p := BuildPrincipal(user, []string{"should.be.ignored"})

	assert.Equal(t, []string{shared.RoleModerator, shared.RoleUser}, p.DirectRoles)
	// Authorities are the deduplicated union of role names and role permissions.
	assert.ElementsMatch(t, []string{shared.RoleModerator, shared.RoleUser, "users.view", "users.edit"}, p.Authorities)
	assert.NotContains(t, p.Authorities, "should.be.ignored")
}

func TestBuildPrincipalSuperAdminGetsFullCatalog(t *testing.T) {
	user := &User{
		ID:       1,
		Username: "root",
		Roles: []RoleGrant{
			{Name: shared.RoleSuperAdmin},
		},
	}

	catalog := []string{"users.view", "users.edit", "rules.edit"}
	p := BuildPrincipal(user, catalog)

	assert.ElementsMatch(t, []string{shared.RoleSuperAdmin, "users.view", "users.edit", "rules.edit"}, p.Authorities)
}
