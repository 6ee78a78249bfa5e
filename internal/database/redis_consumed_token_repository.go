package database

import (
	"context"
	"fmt"
	"time"

	"recipe-server/internal/interfaces"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure redisConsumedTokenRepository implements ConsumedTokenRepository
var _ interfaces.ConsumedTokenRepository = (*redisConsumedTokenRepository)(nil)

type redisConsumedTokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisConsumedTokenRepository creates a Redis-backed registry of spent
// workflow token JTIs.
func NewRedisConsumedTokenRepository(client *redis.Client, logger *zap.Logger) interfaces.ConsumedTokenRepository {
	return &redisConsumedTokenRepository{
		client: client,
		logger: logger.Named("RedisConsumedTokenRepo"),
	}
}

// Consume records the jti with SETNX. The key only needs to outlive the
// token's own expiry, so the TTL is bounded by the caller. Returns false
// when the jti was already recorded, meaning the token was spent before.
func (r *redisConsumedTokenRepository) Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	key := fmt.Sprintf("consumed_token:%s", jti)

	ok, err := r.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil && err != redis.Nil {
		r.logger.Error("Failed to record consumed token in redis", zap.Error(err), zap.String("jti", jti))
		return false, fmt.Errorf("failed to record consumed token: %w", err)
	}
	if !ok {
		r.logger.Warn("Workflow token replay detected", zap.String("jti", jti))
		return false, nil
	}
	r.logger.Debug("Workflow token consumed", zap.String("jti", jti), zap.Duration("ttl", ttl))
	return true, nil
}
