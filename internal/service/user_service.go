package service

import (
	"context"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"

	"github.com/google/uuid"
)

// UpdateProfileInput carries the editable profile fields. Nil pointers
// leave the current value untouched.
type UpdateProfileInput struct {
	Username  *string
	Location  *string
	AboutMe   *string
	ImageFile *string
}

// UserService defines profile, listing and follow-graph logic.
type UserService interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	UserCounts(ctx context.Context, userID uuid.UUID) (models.UserCounts, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)

	// DeleteUser removes the account, its content (via cascade) and every
	// live session.
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// SetUserRole assigns a named role. Admin-only at the HTTP layer.
	SetUserRole(ctx context.Context, userID uuid.UUID, roleName string) error

	// Follow/Unfollow are idempotent. Following yourself is an error.
	Follow(ctx context.Context, followerID, followedID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]interfaces.FollowEdge, int64, error)
	ListFollowed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]interfaces.FollowEdge, int64, error)
}
