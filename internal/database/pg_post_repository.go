package database

import (
	"context"
	"errors"
	"fmt"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgPostRepository implements PostRepository
var _ interfaces.PostRepository = (*pgPostRepository)(nil)

type pgPostRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgPostRepository creates a new PostgreSQL-backed PostRepository.
func NewPgPostRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.PostRepository {
	return &pgPostRepository{
		db:     db,
		logger: logger.Named("PgPostRepo"),
	}
}

const postColumns = `id, title, description, post_image, portions, prep_time, cook_time,
	type_category, ingredients, ingredients_html, preparation, preparation_html,
	user_id, date_posted`

// CreatePost inserts a new post.
func (r *pgPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (id, title, description, post_image, portions, prep_time, cook_time,
		type_category, ingredients, ingredients_html, preparation, preparation_html, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING date_posted`
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	r.logger.Debug("Executing query", zap.String("query", "CreatePost"), zap.String("postID", post.ID.String()), zap.String("userID", post.UserID.String()))

	err := r.db.QueryRow(ctx, query,
		post.ID, post.Title, post.Description, post.PostImage, post.Portions,
		post.PrepTime, post.CookTime, post.TypeCategory,
		post.Ingredients, post.IngredientsHTML, post.Preparation, post.PreparationHTML,
		post.UserID,
	).Scan(&post.DatePosted)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			r.logger.Warn("Attempted to create post for non-existent user", zap.String("userID", post.UserID.String()))
			return models.ErrUserNotFound
		}
		r.logger.Error("Failed to create post in postgres", zap.Error(err), zap.String("postID", post.ID.String()))
		return fmt.Errorf("failed to create post in postgres: %w", err)
	}
	r.logger.Info("Post created successfully", zap.String("postID", post.ID.String()), zap.String("userID", post.UserID.String()))
	return nil
}

// GetPostByID retrieves a post by its ID.
func (r *pgPostRepository) GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post := &models.Post{}
	err := pgxscan.Get(ctx, r.db, post, query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Post not found by ID", zap.String("postID", id.String()))
			return nil, models.ErrPostNotFound
		}
		r.logger.Error("Failed to get post by id from postgres", zap.Error(err), zap.String("postID", id.String()))
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return post, nil
}

// UpdatePost persists every mutable field of the post.
func (r *pgPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET title = $1, description = $2, post_image = $3, portions = $4,
		prep_time = $5, cook_time = $6, type_category = $7,
		ingredients = $8, ingredients_html = $9, preparation = $10, preparation_html = $11
		WHERE id = $12`
	r.logger.Debug("Executing query", zap.String("query", "UpdatePost"), zap.String("postID", post.ID.String()))

	cmdTag, err := r.db.Exec(ctx, query,
		post.Title, post.Description, post.PostImage, post.Portions,
		post.PrepTime, post.CookTime, post.TypeCategory,
		post.Ingredients, post.IngredientsHTML, post.Preparation, post.PreparationHTML,
		post.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update post in postgres", zap.Error(err), zap.String("postID", post.ID.String()))
		return fmt.Errorf("failed to update post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update non-existent post", zap.String("postID", post.ID.String()))
		return models.ErrPostNotFound
	}
	r.logger.Info("Post updated successfully", zap.String("postID", post.ID.String()))
	return nil
}

// DeletePost removes the post. Comments and favorites go with the cascade.
func (r *pgPostRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("postID", id.String()))

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete post from postgres", zap.Error(err), zap.String("postID", id.String()))
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent post", zap.String("postID", id.String()))
		return models.ErrPostNotFound
	}
	r.logger.Info("Post deleted successfully", zap.String("postID", id.String()))
	return nil
}

// ListPosts returns one page of all posts, newest first, plus the total count.
func (r *pgPostRepository) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY date_posted DESC LIMIT $1 OFFSET $2`
	posts := make([]models.Post, 0)
	if err := pgxscan.Select(ctx, r.db, &posts, query, limit, offset); err != nil {
		r.logger.Error("Failed to query posts from postgres", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		r.logger.Error("Failed to count posts", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return posts, count, nil
}

// ListPostsByAuthor returns one page of the author's posts, newest first.
func (r *pgPostRepository) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Post, int64, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY date_posted DESC LIMIT $2 OFFSET $3`
	posts := make([]models.Post, 0)
	if err := pgxscan.Select(ctx, r.db, &posts, query, authorID, limit, offset); err != nil {
		r.logger.Error("Failed to query posts by author", zap.Error(err), zap.String("authorID", authorID.String()))
		return nil, 0, fmt.Errorf("failed to query posts by author: %w", err)
	}

	count, err := r.CountPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, 0, err
	}
	return posts, count, nil
}

// ListFollowedPosts returns one page of posts authored by users the given
// user follows, newest first.
func (r *pgPostRepository) ListFollowedPosts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, int64, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE user_id IN (SELECT followed_id FROM follows WHERE follower_id = $1)
		ORDER BY date_posted DESC LIMIT $2 OFFSET $3`
	posts := make([]models.Post, 0)
	if err := pgxscan.Select(ctx, r.db, &posts, query, userID, limit, offset); err != nil {
		r.logger.Error("Failed to query followed posts", zap.Error(err), zap.String("userID", userID.String()))
		return nil, 0, fmt.Errorf("failed to query followed posts: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM posts
		WHERE user_id IN (SELECT followed_id FROM follows WHERE follower_id = $1)`
	var count int64
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count followed posts", zap.Error(err), zap.String("userID", userID.String()))
		return nil, 0, fmt.Errorf("failed to count followed posts: %w", err)
	}
	return posts, count, nil
}

// CountPostsByAuthor returns the author's post count.
func (r *pgPostRepository) CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, authorID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count posts by author", zap.Error(err), zap.String("authorID", authorID.String()))
		return 0, fmt.Errorf("failed to count posts by author: %w", err)
	}
	return count, nil
}
