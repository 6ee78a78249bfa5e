package service

import (
	"context"

	"recipe-server/internal/models"

	"github.com/google/uuid"
)

// AuthService defines authentication, session and account-workflow logic.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.TokenDetails, error)
	Logout(ctx context.Context, userID uuid.UUID, accessUUID, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*models.TokenDetails, error)
	VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error)

	// Account workflows. Each Request* issues a signed single-use token and
	// queues an email; each Confirm*/Reset* verifies and consumes it.
	// The confirm operations take the request principal so a logged-in
	// user cannot apply a token minted for someone else.
	ConfirmAccount(ctx context.Context, principal models.Principal, tokenString string) error
	ResendConfirmation(ctx context.Context, userID uuid.UUID) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, tokenString, newPassword string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail, password string) error
	ConfirmEmailChange(ctx context.Context, principal models.Principal, tokenString string) error
}
