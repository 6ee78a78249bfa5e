package database

import (
	"context"
	"errors"
	"fmt"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgFavoriteRepository implements FavoriteRepository
var _ interfaces.FavoriteRepository = (*pgFavoriteRepository)(nil)

type pgFavoriteRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgFavoriteRepository creates a new PostgreSQL-backed FavoriteRepository.
func NewPgFavoriteRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.FavoriteRepository {
	return &pgFavoriteRepository{
		db:     db,
		logger: logger.Named("PgFavoriteRepo"),
	}
}

// AddFavorite inserts the user↔post row. Unlike following, favoriting the
// same post twice is an error surfaced to the caller.
func (r *pgFavoriteRepository) AddFavorite(ctx context.Context, userID, postID uuid.UUID) error {
	query := `INSERT INTO favorite_posts (user_id, post_id) VALUES ($1, $2)`
	r.logger.Debug("Executing query", zap.String("query", query),
		zap.String("userID", userID.String()), zap.String("postID", postID.String()))

	_, err := r.db.Exec(ctx, query, userID, postID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation
				r.logger.Warn("Attempted to favorite post twice",
					zap.String("userID", userID.String()), zap.String("postID", postID.String()))
				return models.ErrAlreadyFavorited
			case "23503": // foreign_key_violation
				r.logger.Warn("Attempted to favorite missing post",
					zap.String("userID", userID.String()), zap.String("postID", postID.String()))
				return models.ErrPostNotFound
			}
		}
		r.logger.Error("Failed to insert favorite", zap.Error(err),
			zap.String("userID", userID.String()), zap.String("postID", postID.String()))
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	r.logger.Info("Favorite added",
		zap.String("userID", userID.String()), zap.String("postID", postID.String()))
	return nil
}

// RemoveFavorite deletes the row and errors when it did not exist.
func (r *pgFavoriteRepository) RemoveFavorite(ctx context.Context, userID, postID uuid.UUID) error {
	query := `DELETE FROM favorite_posts WHERE user_id = $1 AND post_id = $2`
	r.logger.Debug("Executing query", zap.String("query", query),
		zap.String("userID", userID.String()), zap.String("postID", postID.String()))

	cmdTag, err := r.db.Exec(ctx, query, userID, postID)
	if err != nil {
		r.logger.Error("Failed to delete favorite", zap.Error(err),
			zap.String("userID", userID.String()), zap.String("postID", postID.String()))
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to remove non-existent favorite",
			zap.String("userID", userID.String()), zap.String("postID", postID.String()))
		return models.ErrFavoriteNotFound
	}
	r.logger.Info("Favorite removed",
		zap.String("userID", userID.String()), zap.String("postID", postID.String()))
	return nil
}

// IsFavorited reports whether the row exists.
func (r *pgFavoriteRepository) IsFavorited(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM favorite_posts WHERE user_id = $1 AND post_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, postID).Scan(&exists); err != nil {
		r.logger.Error("Failed to check favorite", zap.Error(err),
			zap.String("userID", userID.String()), zap.String("postID", postID.String()))
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

// ListFavoriters returns one page of favorite rows for the post, most recent
// first, plus the count.
func (r *pgFavoriteRepository) ListFavoriters(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.FavoritePost, int64, error) {
	query := `SELECT user_id, post_id, liked_at FROM favorite_posts
		WHERE post_id = $1 ORDER BY liked_at DESC LIMIT $2 OFFSET $3`
	favorites := make([]models.FavoritePost, 0)
	if err := pgxscan.Select(ctx, r.db, &favorites, query, postID, limit, offset); err != nil {
		r.logger.Error("Failed to query favoriters", zap.Error(err), zap.String("postID", postID.String()))
		return nil, 0, fmt.Errorf("failed to query favoriters: %w", err)
	}

	count, err := r.CountFavorites(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	return favorites, count, nil
}

// CountFavorites returns the post's favorite count.
func (r *pgFavoriteRepository) CountFavorites(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM favorite_posts WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count favorites", zap.Error(err), zap.String("postID", postID.String()))
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}
