package service

import (
	"context"

	"recipe-server/internal/models"

	"github.com/google/uuid"
)

// CreatePostInput carries the fields of a new recipe post. Ingredients and
// Preparation are markdown source.
type CreatePostInput struct {
	Title        string
	Description  string
	PostImage    string
	Portions     int
	PrepTime     int
	CookTime     int
	TypeCategory string
	Ingredients  string
	Preparation  string
}

// UpdatePostInput carries the editable post fields. Nil pointers leave the
// current value untouched.
type UpdatePostInput struct {
	Title        *string
	Description  *string
	PostImage    *string
	Portions     *int
	PrepTime     *int
	CookTime     *int
	TypeCategory *string
	Ingredients  *string
	Preparation  *string
}

// PostService defines recipe post and favorite logic. Write operations
// check ownership: only the author or an administrator may edit or delete.
type PostService interface {
	CreatePost(ctx context.Context, author *models.User, input CreatePostInput) (*models.Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	UpdatePost(ctx context.Context, actor *models.User, postID uuid.UUID, input UpdatePostInput) (*models.Post, error)
	DeletePost(ctx context.Context, actor *models.User, postID uuid.UUID) error

	ListPosts(ctx context.Context, limit, offset int) ([]models.Post, int64, error)
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Post, int64, error)
	ListFollowedPosts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, int64, error)
	PostCounts(ctx context.Context, postID uuid.UUID) (models.PostCounts, error)

	// Favorite errors on duplicates; Unfavorite errors when absent. The
	// asymmetry with following is deliberate and mirrors the UI.
	Favorite(ctx context.Context, userID, postID uuid.UUID) error
	Unfavorite(ctx context.Context, userID, postID uuid.UUID) error
	IsFavorited(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	ListFavoriters(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.FavoritePost, int64, error)
}

// CommentService defines comment and moderation logic.
type CommentService interface {
	CreateComment(ctx context.Context, author *models.User, postID uuid.UUID, body string) (*models.Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	UpdateComment(ctx context.Context, actor *models.User, commentID uuid.UUID, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor *models.User, commentID uuid.UUID) error

	// ListCommentsByPost includes disabled comments only for moderators.
	ListCommentsByPost(ctx context.Context, principal models.Principal, postID uuid.UUID, limit, offset int) ([]models.Comment, int64, error)

	// ListAllComments feeds the moderation dashboard.
	ListAllComments(ctx context.Context, limit, offset int) ([]models.Comment, int64, error)

	// SetDisabled hides or restores a comment. Moderator-only at the HTTP layer.
	SetDisabled(ctx context.Context, commentID uuid.UUID, disabled bool) error
}
