package interfaces

import (
	"context"

	"recipe-server/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines user persistence. Implementations must populate
// User.Role when the user has one.
type UserRepository interface {
	// CreateUser inserts a new user. Returns models.ErrUserAlreadyExists or
	// models.ErrEmailAlreadyExists on unique violations.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID returns models.ErrUserNotFound when the id does not exist.
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetUserByUsername returns models.ErrUserNotFound when absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail returns models.ErrUserNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers returns one page of users ordered by username plus the total count.
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error)

	// UpdateProfile updates username, location, about_me and image_file.
	UpdateProfile(ctx context.Context, user *models.User) error

	// UpdateEmail sets a new email address. Returns models.ErrEmailAlreadyExists
	// on a unique violation.
	UpdateEmail(ctx context.Context, userID uuid.UUID, email string) error

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error

	// SetConfirmed marks the account as confirmed.
	SetConfirmed(ctx context.Context, userID uuid.UUID, confirmed bool) error

	// SetRole assigns a role by id.
	SetRole(ctx context.Context, userID uuid.UUID, roleID int64) error

	// TouchLastSeen bumps last_seen to now.
	TouchLastSeen(ctx context.Context, userID uuid.UUID) error

	// DeleteUser removes the user. Follow, favorite, post and comment rows
	// referencing the user are removed by the database cascade.
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// CountUsers returns the total number of users.
	CountUsers(ctx context.Context) (int64, error)
}

// RoleRepository defines role persistence and seeding.
type RoleRepository interface {
	// SeedRoles upserts the three canonical roles by name, resetting and
	// reapplying their flag sets, and marks exactly one as default.
	// Re-running is idempotent.
	SeedRoles(ctx context.Context) error

	// GetRoleByName returns models.ErrRoleNotFound when absent.
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)

	// GetDefaultRole returns the single default role.
	GetDefaultRole(ctx context.Context) (*models.Role, error)
}
