// Package token issues and verifies the signed, short-lived tokens used by
// the account workflows: email confirmation, password reset and email change.
// Tokens are opaque to clients; verification never panics and degrades to a
// sentinel error the caller maps to an HTTP status.
package token

import (
	"errors"
	"fmt"
	"time"

	"recipe-server/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose names the workflow a token belongs to. Verify rejects a token
// presented to the wrong workflow.
type Purpose string

const (
	PurposeConfirm       Purpose = "confirm"
	PurposeResetPassword Purpose = "reset_password"
	PurposeChangeEmail   Purpose = "change_email"
)

// DefaultTTL is the expiry window applied when the caller passes a
// non-positive TTL.
const DefaultTTL = time.Hour

// Claim is the payload carried by a workflow token.
type Claim struct {
	Purpose  Purpose   `json:"purpose"`
	UserID   uuid.UUID `json:"user_id"`
	NewEmail string    `json:"new_email,omitempty"`

	// JTI identifies the token instance for single-use tracking.
	JTI string `json:"-"`
	// ExpiresAt is the embedded expiry, used to bound the consumption record.
	ExpiresAt time.Time `json:"-"`
}

type claims struct {
	Purpose  Purpose   `json:"purpose"`
	UserID   uuid.UUID `json:"user_id"`
	NewEmail string    `json:"new_email,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies workflow tokens with a server-side secret.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec builds a codec. The secret must not be shared with the API
// access-token secret so a workflow token can never pass as a session.
func NewCodec(secret, issuer string) *Codec {
	return &Codec{secret: []byte(secret), issuer: issuer}
}

// Issue serializes and signs the claim with the given TTL.
func (c *Codec) Issue(claim Claim, ttl time.Duration) (string, error) {
	if claim.Purpose == "" || claim.UserID == uuid.Nil {
		return "", fmt.Errorf("issue token: %w", models.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Purpose:  claim.Purpose,
		UserID:   claim.UserID,
		NewEmail: claim.NewEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   claim.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign workflow token: %w", err)
	}
	return signed, nil
}

// Verify parses the token and returns its claim. Signature mismatch,
// malformed input and expiry all map to models sentinel errors; no error
// from the JWT library escapes this boundary.
func (c *Codec) Verify(tokenString string, expected Purpose) (*Claim, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, models.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, models.ErrTokenMalformed
		default:
			return nil, models.ErrTokenInvalid
		}
	}

	cl, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid {
		return nil, models.ErrTokenInvalid
	}
	if cl.Purpose != expected {
		return nil, models.ErrTokenInvalid
	}

	out := &Claim{
		Purpose:  cl.Purpose,
		UserID:   cl.UserID,
		NewEmail: cl.NewEmail,
		JTI:      cl.ID,
	}
	if cl.ExpiresAt != nil {
		out.ExpiresAt = cl.ExpiresAt.Time
	}
	return out, nil
}
