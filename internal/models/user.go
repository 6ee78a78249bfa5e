package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	ImageFile    string    `db:"image_file" json:"image_file"`
	Confirmed    bool      `db:"confirmed" json:"confirmed"`
	RoleID       *int64    `db:"role_id" json:"-"`
	Location     string    `db:"location" json:"location"`
	AboutMe      string    `db:"about_me" json:"about_me"`
	LastSeen     time.Time `db:"last_seen" json:"last_seen"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Role is populated by repositories that join the roles table.
	// A user whose role row was deleted has Role == nil and can do nothing.
	Role *Role `db:"-" json:"-"`
}

// Can reports whether the user's role grants perm. False when no role is set.
func (u *User) Can(perm Permission) bool {
	return u.Role != nil && u.Role.HasPermission(perm)
}

// IsAdministrator reports whether the user holds the ADMIN flag.
func (u *User) IsAdministrator() bool {
	return u.Can(PermissionAdmin)
}
