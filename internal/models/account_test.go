package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_PasswordHashing(t *testing.T) {
	acct := Account{}
	require.NoError(t, acct.SetPassword("password123"))
	assert.NotEqual(t, "password123", acct.PasswordHash)
	assert.True(t, acct.CheckPassword("password123"))
	assert.False(t, acct.CheckPassword("wrongpassword"))
}

func TestAccount_HasPermission(t *testing.T) {
	view := Permission{ID: 1, Code: PermViewAccounts}
	manage := Permission{ID: 2, Code: PermManageAccounts}

	acct := Account{
		Roles: []Role{
			{Name: "Viewer", Slug: "viewer", Enabled: true, Permissions: []Permission{view}},
		},
	}

	// Grants flow from enabled roles.
	assert.True(t, acct.HasPermission(PermViewAccounts))
	assert.False(t, acct.HasPermission(PermManageAccounts))

	// Unknown codes resolve to false rather than erroring.
	assert.False(t, acct.HasPermission("no_such_permission"))

	// Disabling the role withdraws its grants.
	acct.Roles[0].Enabled = false
	assert.False(t, acct.HasPermission(PermViewAccounts))

	// Direct grants apply regardless of role state.
	acct.Permissions = []Permission{manage}
	assert.True(t, acct.HasPermission(PermManageAccounts))
	assert.False(t, acct.HasPermission(PermViewAccounts))
}

func TestAccount_HasPermissionUnion(t *testing.T) {
	view := Permission{ID: 1, Code: PermViewAccounts}
	stats := Permission{ID: 2, Code: PermViewStatistics}

	// Multiple roles plus direct grants resolve as a union: adding a source
	// never removes a capability.
	acct := Account{
		Roles: []Role{
			{Slug: "viewer", Enabled: true, Permissions: []Permission{view}},
			{Slug: "analyst", Enabled: true, Permissions: []Permission{stats, view}},
		},
		Permissions: []Permission{view},
	}
	assert.True(t, acct.HasPermission(PermViewAccounts))
	assert.True(t, acct.HasPermission(PermViewStatistics))

	// Dropping one of several sources of the same grant keeps it held.
	acct.Permissions = nil
	assert.True(t, acct.HasPermission(PermViewAccounts))
}

func TestAccount_HasRole(t *testing.T) {
	acct := Account{Roles: []Role{{Slug: "viewer", Enabled: false}}}
	assert.True(t, acct.HasRole("viewer"), "assignment is independent of the role being enabled")
	assert.False(t, acct.HasRole("admin"))
}

func TestRole_Grants(t *testing.T) {
	role := Role{Permissions: []Permission{{Code: PermManageRoles}}}
	assert.True(t, role.Grants(PermManageRoles))
	assert.False(t, role.Grants(PermManageSystem))
}
