package interfaces

import (
	"context"
	"time"

	"recipe-server/internal/models"

	"github.com/google/uuid"
)

// TokenRepository stores the registry of issued API access/refresh tokens.
// Presence of a token UUID means the token is still valid; logout and
// password changes delete entries.
type TokenRepository interface {
	// SetToken registers both halves of a freshly issued pair.
	SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error

	// GetUserIDByAccessUUID returns models.ErrTokenNotFound when absent.
	GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error)

	// GetUserIDByRefreshUUID returns models.ErrTokenNotFound when absent.
	GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error)

	// DeleteTokens removes the given UUIDs; empty strings are skipped.
	// Returns the number of keys actually removed.
	DeleteTokens(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) (int64, error)

	// DeleteTokensByUserID revokes every token issued to the user.
	DeleteTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ConsumedTokenRepository tracks one-time workflow tokens (confirmation,
// password reset, email change) by JTI so a token verifies at most once.
type ConsumedTokenRepository interface {
	// Consume records the jti with the given TTL. Returns false when the jti
	// was already recorded.
	Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}
