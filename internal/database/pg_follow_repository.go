package database

import (
	"context"
	"fmt"

	"recipe-server/internal/interfaces"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgFollowRepository implements FollowRepository
var _ interfaces.FollowRepository = (*pgFollowRepository)(nil)

type pgFollowRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgFollowRepository creates a new PostgreSQL-backed FollowRepository.
func NewPgFollowRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.FollowRepository {
	return &pgFollowRepository{
		db:     db,
		logger: logger.Named("PgFollowRepo"),
	}
}

// Follow inserts the edge follower→followed. Re-following is a no-op.
func (r *pgFollowRepository) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	query := `INSERT INTO follows (follower_id, followed_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	r.logger.Debug("Executing query", zap.String("query", query),
		zap.String("followerID", followerID.String()), zap.String("followedID", followedID.String()))

	cmdTag, err := r.db.Exec(ctx, query, followerID, followedID)
	if err != nil {
		r.logger.Error("Failed to insert follow edge", zap.Error(err),
			zap.String("followerID", followerID.String()), zap.String("followedID", followedID.String()))
		return fmt.Errorf("failed to insert follow edge: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Debug("Follow edge already present",
			zap.String("followerID", followerID.String()), zap.String("followedID", followedID.String()))
		return nil
	}
	r.logger.Info("Follow edge created",
		zap.String("followerID", followerID.String()), zap.String("followedID", followedID.String()))
	return nil
}

// Unfollow deletes the edge. Deleting an absent edge is a no-op.
func (r *pgFollowRepository) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`
	r.logger.Debug("Executing query", zap.String("query", query),
		zap.String("followerID", followerID.String()), zap.String("followedID", followedID.String()))

	if _, err := r.db.Exec(ctx, query, followerID, followedID); err != nil {
		r.logger.Error("Failed to delete follow edge", zap.Error(err),
			zap.String("followerID", followerID.String()), zap.String("followedID", followedID.String()))
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}
	return nil
}

// IsFollowing reports whether the edge exists. Nil ids never match.
func (r *pgFollowRepository) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	if followerID == uuid.Nil || followedID == uuid.Nil {
		return false, nil
	}
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, followerID, followedID).Scan(&exists); err != nil {
		r.logger.Error("Failed to check follow edge", zap.Error(err),
			zap.String("followerID", followerID.String()), zap.String("followedID", followedID.String()))
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return exists, nil
}

// ListFollowers returns one page of users following userID, newest edge first.
func (r *pgFollowRepository) ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]interfaces.FollowEdge, int64, error) {
	query := `SELECT f.follower_id AS user_id, u.username, f.created_at
		FROM follows f JOIN users u ON u.id = f.follower_id
		WHERE f.followed_id = $1
		ORDER BY f.created_at DESC LIMIT $2 OFFSET $3`
	edges := make([]interfaces.FollowEdge, 0)
	if err := pgxscan.Select(ctx, r.db, &edges, query, userID, limit, offset); err != nil {
		r.logger.Error("Failed to query followers", zap.Error(err), zap.String("userID", userID.String()))
		return nil, 0, fmt.Errorf("failed to query followers: %w", err)
	}

	count, err := r.CountFollowers(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return edges, count, nil
}

// ListFollowed returns one page of users userID follows, newest edge first.
func (r *pgFollowRepository) ListFollowed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]interfaces.FollowEdge, int64, error) {
	query := `SELECT f.followed_id AS user_id, u.username, f.created_at
		FROM follows f JOIN users u ON u.id = f.followed_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC LIMIT $2 OFFSET $3`
	edges := make([]interfaces.FollowEdge, 0)
	if err := pgxscan.Select(ctx, r.db, &edges, query, userID, limit, offset); err != nil {
		r.logger.Error("Failed to query followed users", zap.Error(err), zap.String("userID", userID.String()))
		return nil, 0, fmt.Errorf("failed to query followed users: %w", err)
	}

	count, err := r.CountFollowed(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return edges, count, nil
}

// CountFollowers returns the number of incoming edges.
func (r *pgFollowRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE followed_id = $1`, userID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count followers", zap.Error(err), zap.String("userID", userID.String()))
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}

// CountFollowed returns the number of outgoing edges.
func (r *pgFollowRepository) CountFollowed(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count followed users", zap.Error(err), zap.String("userID", userID.String()))
		return 0, fmt.Errorf("failed to count followed users: %w", err)
	}
	return count, nil
}

// CountAll returns the total number of follow rows.
func (r *pgFollowRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM follows`).Scan(&count); err != nil {
		r.logger.Error("Failed to count follow rows", zap.Error(err))
		return 0, fmt.Errorf("failed to count follow rows: %w", err)
	}
	return count, nil
}
