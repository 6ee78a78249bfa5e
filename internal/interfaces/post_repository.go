package interfaces

import (
	"context"

	"recipe-server/internal/models"

	"github.com/google/uuid"
)

// PostRepository defines recipe post persistence.
type PostRepository interface {
	// CreatePost inserts a new post and fills in its generated ID.
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPostByID returns models.ErrPostNotFound when absent.
	GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)

	// UpdatePost persists every mutable field of the post.
	UpdatePost(ctx context.Context, post *models.Post) error

	// DeletePost returns models.ErrPostNotFound when nothing was deleted.
	DeletePost(ctx context.Context, id uuid.UUID) error

	// ListPosts returns one page ordered newest first plus the total count.
	ListPosts(ctx context.Context, limit, offset int) ([]models.Post, int64, error)

	// ListPostsByAuthor returns one page of the author's posts, newest first.
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Post, int64, error)

	// ListFollowedPosts returns one page of posts authored by users the given
	// user follows, newest first.
	ListFollowedPosts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, int64, error)

	// CountPostsByAuthor returns the author's post count.
	CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
}

// CommentRepository defines comment persistence.
type CommentRepository interface {
	// CreateComment inserts a new comment and fills in its generated ID.
	CreateComment(ctx context.Context, comment *models.Comment) error

	// GetCommentByID returns models.ErrCommentNotFound when absent.
	GetCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)

	// UpdateComment persists body, body_html and the disabled flag.
	UpdateComment(ctx context.Context, comment *models.Comment) error

	// DeleteComment returns models.ErrCommentNotFound when nothing was deleted.
	DeleteComment(ctx context.Context, id uuid.UUID) error

	// ListComments returns one page of all comments, newest first, with count.
	ListComments(ctx context.Context, limit, offset int) ([]models.Comment, int64, error)

	// ListCommentsByPost returns one page of a post's comments, oldest first,
	// with count. Disabled comments are included only when includeDisabled.
	ListCommentsByPost(ctx context.Context, postID uuid.UUID, includeDisabled bool, limit, offset int) ([]models.Comment, int64, error)

	// SetDisabled flips the moderation flag.
	SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error

	// CountCommentsByPost returns the post's comment count.
	CountCommentsByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}
