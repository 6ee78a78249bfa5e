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

// Compile-time check to ensure pgCommentRepository implements CommentRepository
var _ interfaces.CommentRepository = (*pgCommentRepository)(nil)

type pgCommentRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgCommentRepository creates a new PostgreSQL-backed CommentRepository.
func NewPgCommentRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.CommentRepository {
	return &pgCommentRepository{
		db:     db,
		logger: logger.Named("PgCommentRepo"),
	}
}

const commentColumns = `id, body, body_html, disabled, user_id, post_id, created_at`

// CreateComment inserts a new comment.
func (r *pgCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (id, body, body_html, disabled, user_id, post_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	r.logger.Debug("Executing query", zap.String("query", "CreateComment"), zap.String("commentID", comment.ID.String()), zap.String("postID", comment.PostID.String()))

	err := r.db.QueryRow(ctx, query,
		comment.ID, comment.Body, comment.BodyHTML, comment.Disabled,
		comment.UserID, comment.PostID,
	).Scan(&comment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			r.logger.Warn("Attempted to create comment on missing post or user",
				zap.String("postID", comment.PostID.String()), zap.String("userID", comment.UserID.String()))
			return models.ErrPostNotFound
		}
		r.logger.Error("Failed to create comment in postgres", zap.Error(err), zap.String("commentID", comment.ID.String()))
		return fmt.Errorf("failed to create comment in postgres: %w", err)
	}
	r.logger.Info("Comment created successfully", zap.String("commentID", comment.ID.String()), zap.String("postID", comment.PostID.String()))
	return nil
}

// GetCommentByID retrieves a comment by its ID.
func (r *pgCommentRepository) GetCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	comment := &models.Comment{}
	err := pgxscan.Get(ctx, r.db, comment, query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Comment not found by ID", zap.String("commentID", id.String()))
			return nil, models.ErrCommentNotFound
		}
		r.logger.Error("Failed to get comment by id from postgres", zap.Error(err), zap.String("commentID", id.String()))
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}
	return comment, nil
}

// UpdateComment persists body, body_html and the disabled flag.
func (r *pgCommentRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	query := `UPDATE comments SET body = $1, body_html = $2, disabled = $3 WHERE id = $4`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("commentID", comment.ID.String()))

	cmdTag, err := r.db.Exec(ctx, query, comment.Body, comment.BodyHTML, comment.Disabled, comment.ID)
	if err != nil {
		r.logger.Error("Failed to update comment in postgres", zap.Error(err), zap.String("commentID", comment.ID.String()))
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update non-existent comment", zap.String("commentID", comment.ID.String()))
		return models.ErrCommentNotFound
	}
	r.logger.Info("Comment updated successfully", zap.String("commentID", comment.ID.String()))
	return nil
}

// DeleteComment removes the comment.
func (r *pgCommentRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("commentID", id.String()))

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete comment from postgres", zap.Error(err), zap.String("commentID", id.String()))
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent comment", zap.String("commentID", id.String()))
		return models.ErrCommentNotFound
	}
	r.logger.Info("Comment deleted successfully", zap.String("commentID", id.String()))
	return nil
}

// ListComments returns one page of all comments, newest first, plus the count.
func (r *pgCommentRepository) ListComments(ctx context.Context, limit, offset int) ([]models.Comment, int64, error) {
	query := `SELECT ` + commentColumns + ` FROM comments ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	comments := make([]models.Comment, 0)
	if err := pgxscan.Select(ctx, r.db, &comments, query, limit, offset); err != nil {
		r.logger.Error("Failed to query comments from postgres", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to query comments: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments`).Scan(&count); err != nil {
		r.logger.Error("Failed to count comments", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return comments, count, nil
}

// ListCommentsByPost returns one page of a post's comments, oldest first.
// Disabled comments are filtered out unless includeDisabled is set.
func (r *pgCommentRepository) ListCommentsByPost(ctx context.Context, postID uuid.UUID, includeDisabled bool, limit, offset int) ([]models.Comment, int64, error) {
	filter := ` AND disabled = FALSE`
	if includeDisabled {
		filter = ``
	}
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1` + filter +
		` ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	comments := make([]models.Comment, 0)
	if err := pgxscan.Select(ctx, r.db, &comments, query, postID, limit, offset); err != nil {
		r.logger.Error("Failed to query comments by post", zap.Error(err), zap.String("postID", postID.String()))
		return nil, 0, fmt.Errorf("failed to query comments by post: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM comments WHERE post_id = $1` + filter
	var count int64
	if err := r.db.QueryRow(ctx, countQuery, postID).Scan(&count); err != nil {
		r.logger.Error("Failed to count comments by post", zap.Error(err), zap.String("postID", postID.String()))
		return nil, 0, fmt.Errorf("failed to count comments by post: %w", err)
	}
	return comments, count, nil
}

// SetDisabled flips the moderation flag on a comment.
func (r *pgCommentRepository) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	query := `UPDATE comments SET disabled = $1 WHERE id = $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("commentID", id.String()), zap.Bool("disabled", disabled))

	cmdTag, err := r.db.Exec(ctx, query, disabled, id)
	if err != nil {
		r.logger.Error("Failed to set comment disabled flag", zap.Error(err), zap.String("commentID", id.String()))
		return fmt.Errorf("failed to set comment disabled flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to moderate non-existent comment", zap.String("commentID", id.String()))
		return models.ErrCommentNotFound
	}
	r.logger.Info("Comment moderation flag updated", zap.String("commentID", id.String()), zap.Bool("disabled", disabled))
	return nil
}

// CountCommentsByPost returns the post's visible comment count.
func (r *pgCommentRepository) CountCommentsByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1 AND disabled = FALSE`, postID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count comments by post", zap.Error(err), zap.String("postID", postID.String()))
		return 0, fmt.Errorf("failed to count comments by post: %w", err)
	}
	return count, nil
}
