package interfaces

import (
	"context"
	"time"

	"recipe-server/internal/models"

	"github.com/google/uuid"
)

// FollowEdge is a follow row joined with the counterpart user's name,
// as needed by follower/followed listings.
type FollowEdge struct {
	UserID    uuid.UUID `db:"user_id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

// FollowRepository defines the directed follow graph.
type FollowRepository interface {
	// Follow inserts the edge follower→followed. Inserting an existing edge
	// is a no-op.
	Follow(ctx context.Context, followerID, followedID uuid.UUID) error

	// Unfollow deletes the edge. Deleting an absent edge is a no-op.
	Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error

	// IsFollowing reports edge existence. False when either id is uuid.Nil.
	IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)

	// ListFollowers returns one page of users following userID plus the count.
	ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]FollowEdge, int64, error)

	// ListFollowed returns one page of users userID follows plus the count.
	ListFollowed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]FollowEdge, int64, error)

	// CountFollowers returns the number of incoming edges.
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)

	// CountFollowed returns the number of outgoing edges.
	CountFollowed(ctx context.Context, userID uuid.UUID) (int64, error)

	// CountAll returns the total number of follow rows.
	CountAll(ctx context.Context) (int64, error)
}

// FavoriteRepository defines the user↔post favorite join.
type FavoriteRepository interface {
	// AddFavorite inserts the row. Returns models.ErrAlreadyFavorited on a
	// duplicate and models.ErrPostNotFound when the post is gone.
	AddFavorite(ctx context.Context, userID, postID uuid.UUID) error

	// RemoveFavorite deletes the row. Returns models.ErrFavoriteNotFound when
	// it did not exist.
	RemoveFavorite(ctx context.Context, userID, postID uuid.UUID) error

	// IsFavorited reports row existence.
	IsFavorited(ctx context.Context, userID, postID uuid.UUID) (bool, error)

	// ListFavoriters returns one page of users who favorited the post, most
	// recent first, plus the count.
	ListFavoriters(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.FavoritePost, int64, error)

	// CountFavorites returns the post's favorite count.
	CountFavorites(ctx context.Context, postID uuid.UUID) (int64, error)
}
