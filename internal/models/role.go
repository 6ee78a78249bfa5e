package models

// Permission is a single capability bit in a role's bitmask.
type Permission int

const (
	PermissionFollow   Permission = 1
	PermissionComment  Permission = 2
	PermissionWrite    Permission = 4
	PermissionModerate Permission = 8
	PermissionAdmin    Permission = 16
)

// Canonical role names. Exactly these three roles exist after seeding.
const (
	RoleNameUser          = "User"
	RoleNameModerator     = "Moderator"
	RoleNameAdministrator = "Administrator"
)

// Role aggregates permission flags. Exactly one role is the default,
// assigned to newly registered users.
type Role struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	IsDefault   bool       `db:"is_default" json:"is_default"`
	Permissions Permission `db:"permissions" json:"permissions"`
}

// HasPermission reports whether the role grants every bit of perm.
func (r *Role) HasPermission(perm Permission) bool {
	return r.Permissions&perm == perm
}

// AddPermission grants perm. Adding an already-held flag is a no-op.
func (r *Role) AddPermission(perm Permission) {
	if !r.HasPermission(perm) {
		r.Permissions += perm
	}
}

// RemovePermission revokes perm. Removing an absent flag is a no-op.
func (r *Role) RemovePermission(perm Permission) {
	if r.HasPermission(perm) {
		r.Permissions -= perm
	}
}

// ResetPermissions clears all flags.
func (r *Role) ResetPermissions() {
	r.Permissions = 0
}

// SeededRolePermissions returns the canonical flag sets applied by role
// seeding, keyed by role name. Administrator ⊇ Moderator ⊇ User.
func SeededRolePermissions() map[string][]Permission {
	return map[string][]Permission{
		RoleNameUser:      {PermissionFollow, PermissionComment, PermissionWrite},
		RoleNameModerator: {PermissionFollow, PermissionComment, PermissionWrite, PermissionModerate},
		RoleNameAdministrator: {PermissionFollow, PermissionComment, PermissionWrite,
			PermissionModerate, PermissionAdmin},
	}
}
