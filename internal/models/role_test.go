package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissionFlags(t *testing.T) {
	role := &Role{Name: RoleNameUser}

	assert.False(t, role.HasPermission(PermissionFollow), "fresh role should hold no flags")

	role.AddPermission(PermissionFollow)
	role.AddPermission(PermissionComment)
	assert.True(t, role.HasPermission(PermissionFollow))
	assert.True(t, role.HasPermission(PermissionComment))
	assert.False(t, role.HasPermission(PermissionWrite))

	// Adding an already-held flag must not change the bitmask.
	before := role.Permissions
	role.AddPermission(PermissionFollow)
	assert.Equal(t, before, role.Permissions, "AddPermission should be idempotent")

	role.RemovePermission(PermissionFollow)
	assert.False(t, role.HasPermission(PermissionFollow))
	assert.True(t, role.HasPermission(PermissionComment), "removing one flag should not affect others")

	// Removing an absent flag must not change the bitmask.
	before = role.Permissions
	role.RemovePermission(PermissionAdmin)
	assert.Equal(t, before, role.Permissions, "RemovePermission should be a no-op for absent flags")

	role.ResetPermissions()
	assert.Equal(t, Permission(0), role.Permissions)
}

func TestHasPermissionRequiresEveryBit(t *testing.T) {
	role := &Role{}
	role.AddPermission(PermissionFollow)
	role.AddPermission(PermissionComment)

	combined := PermissionFollow | PermissionComment
	assert.True(t, role.HasPermission(combined))

	combined |= PermissionWrite
	assert.False(t, role.HasPermission(combined), "a combined check should fail when any bit is missing")
}

func TestSeededRolePermissionsAreMonotonic(t *testing.T) {
	seeded := SeededRolePermissions()

	buildRole := func(name string) *Role {
		role := &Role{Name: name}
		for _, perm := range seeded[name] {
			role.AddPermission(perm)
		}
		return role
	}

	user := buildRole(RoleNameUser)
	moderator := buildRole(RoleNameModerator)
	admin := buildRole(RoleNameAdministrator)

	// Every flag the plain user holds must also be held up the chain.
	for _, perm := range seeded[RoleNameUser] {
		assert.True(t, moderator.HasPermission(perm))
		assert.True(t, admin.HasPermission(perm))
	}
	for _, perm := range seeded[RoleNameModerator] {
		assert.True(t, admin.HasPermission(perm))
	}

	assert.False(t, user.HasPermission(PermissionModerate))
	assert.False(t, user.HasPermission(PermissionAdmin))
	assert.True(t, moderator.HasPermission(PermissionModerate))
	assert.False(t, moderator.HasPermission(PermissionAdmin))
	assert.True(t, admin.HasPermission(PermissionAdmin))
}

func TestUserCanWithoutRole(t *testing.T) {
	user := &User{Username: "orphan"}

	assert.False(t, user.Can(PermissionFollow), "a user without a role can do nothing")
	assert.False(t, user.IsAdministrator())
}

func TestPrincipalCapabilities(t *testing.T) {
	adminRole := &Role{Name: RoleNameAdministrator}
	for _, perm := range SeededRolePermissions()[RoleNameAdministrator] {
		adminRole.AddPermission(perm)
	}
	admin := &User{Username: "root", Role: adminRole}

	authenticated := NewAuthenticatedPrincipal(admin)
	assert.True(t, authenticated.IsAuthenticated())
	assert.True(t, authenticated.IsAdministrator())
	assert.True(t, authenticated.Can(PermissionModerate))
	assert.Equal(t, admin, authenticated.User())

	anonymous := AnonymousPrincipal{}
	assert.False(t, anonymous.IsAuthenticated())
	assert.False(t, anonymous.IsAdministrator())
	assert.False(t, anonymous.Can(PermissionFollow))
	assert.Nil(t, anonymous.User())
}
