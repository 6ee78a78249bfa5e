package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"recipe-server/internal/config"
	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"
	"recipe-server/internal/token"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Compile-time check to ensure authServiceImpl implements AuthService
var _ AuthService = (*authServiceImpl)(nil)

type authServiceImpl struct {
	userRepo     interfaces.UserRepository
	roleRepo     interfaces.RoleRepository
	tokenRepo    interfaces.TokenRepository
	consumedRepo interfaces.ConsumedTokenRepository
	codec        *token.Codec
	publisher    interfaces.EmailPublisher
	cfg          *config.Config
	logger       *zap.Logger
}

// NewAuthService creates a new instance of authServiceImpl.
func NewAuthService(
	userRepo interfaces.UserRepository,
	roleRepo interfaces.RoleRepository,
	tokenRepo interfaces.TokenRepository,
	consumedRepo interfaces.ConsumedTokenRepository,
	codec *token.Codec,
	publisher interfaces.EmailPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		tokenRepo:    tokenRepo,
		consumedRepo: consumedRepo,
		codec:        codec,
		publisher:    publisher,
		cfg:          cfg,
		logger:       logger.Named("AuthService"),
	}
}

// Register creates a new user with the default role (or Administrator for
// the configured admin address) and queues a confirmation email.
func (s *authServiceImpl) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	logFields := []zap.Field{zap.String("username", username), zap.String("email", email)}
	s.logger.Info("Registering new user", logFields...)

	if _, err := mail.ParseAddress(email); err != nil {
		s.logger.Warn("Registration attempt with invalid email format", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("invalid email format: %w", models.ErrInvalidInput)
	}
	if username == "" || password == "" {
		s.logger.Warn("Registration attempt with empty username or password", logFields...)
		return nil, models.ErrInvalidInput
	}

	existingUser, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		s.logger.Error("Error checking existing username during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing username: %w", err)
	}
	if existingUser != nil {
		s.logger.Warn("Registration attempt for existing username", logFields...)
		return nil, models.ErrUserAlreadyExists
	}

	existingUser, err = s.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		s.logger.Error("Error checking existing email during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}
	if existingUser != nil {
		s.logger.Warn("Registration attempt for existing email", logFields...)
		return nil, models.ErrEmailAlreadyExists
	}

	hashedPassword, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role, err := s.pickRegistrationRole(ctx, email)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		ImageFile:    "default.jpg",
		RoleID:       &role.ID,
		Role:         role,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, models.ErrUserAlreadyExists) && !errors.Is(err, models.ErrEmailAlreadyExists) {
			s.logger.Error("Failed to create user via repository", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	s.sendWorkflowEmail(ctx, user, token.PurposeConfirm, "")

	s.logger.Info("User registered successfully", zap.String("userID", user.ID.String()), zap.String("username", user.Username), zap.String("role", role.Name))
	return user, nil
}

// pickRegistrationRole returns Administrator for the configured admin email,
// the default role otherwise.
func (s *authServiceImpl) pickRegistrationRole(ctx context.Context, email string) (*models.Role, error) {
	if s.cfg.AdminEmail != "" && strings.EqualFold(email, s.cfg.AdminEmail) {
		role, err := s.roleRepo.GetRoleByName(ctx, models.RoleNameAdministrator)
		if err != nil {
			s.logger.Error("Failed to get administrator role for admin email", zap.Error(err))
			return nil, fmt.Errorf("failed to get administrator role: %w", err)
		}
		return role, nil
	}
	role, err := s.roleRepo.GetDefaultRole(ctx)
	if err != nil {
		s.logger.Error("Failed to get default role during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to get default role: %w", err)
	}
	return role, nil
}

// Login authenticates a user by email and returns token details. Login is
// allowed for unconfirmed accounts; write access stays gated until the
// account is confirmed.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*models.TokenDetails, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.logger.Info("Login attempt", zap.String("email", email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Login failed: user not found", zap.String("email", email))
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("Login failed: error getting user from repository", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Login failed: invalid password", zap.String("email", email), zap.String("userID", user.ID.String()))
		return nil, models.ErrInvalidCredentials
	}

	td, err := s.createTokens(user.ID)
	if err != nil {
		s.logger.Error("Failed to create tokens during login", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to create tokens: %w", err)
	}

	if err := s.tokenRepo.SetToken(ctx, user.ID, td); err != nil {
		s.logger.Error("Failed to save token details during login", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to save token details: %w", err)
	}

	if err := s.userRepo.TouchLastSeen(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to touch last_seen during login", zap.Error(err), zap.String("userID", user.ID.String()))
	}

	s.logger.Info("User logged in successfully", zap.String("userID", user.ID.String()))
	return td, nil
}

// Logout removes the access and refresh tokens from the store. Succeeds
// even when the tokens were already gone.
func (s *authServiceImpl) Logout(ctx context.Context, userID uuid.UUID, accessUUID, refreshToken string) error {
	refreshUUID := ""
	if refreshToken != "" {
		// Best effort: pull the JTI out of the refresh token so both halves
		// of the pair die together. A garbage token just skips this step.
		if claims, err := s.parseClaims(refreshToken); err == nil {
			refreshUUID = claims.ID
		}
	}

	log := s.logger.With(zap.String("userID", userID.String()), zap.String("accessUUID", accessUUID), zap.String("refreshUUID", refreshUUID))
	log.Debug("Attempting to logout user by deleting tokens")

	deletedCount, err := s.tokenRepo.DeleteTokens(ctx, userID, accessUUID, refreshUUID)
	if err != nil {
		log.Error("Failed to delete tokens during logout", zap.Error(err))
	}

	if deletedCount > 0 {
		log.Info("Tokens deleted successfully during logout", zap.Int64("deletedCount", deletedCount))
	} else {
		log.Info("No tokens found to delete during logout (already expired or logged out)")
	}
	return nil
}

// parseClaims parses a signed token string without consulting the registry.
func (s *authServiceImpl) parseClaims(tokenString string) (*models.Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*models.Claims)
	if !ok || !tok.Valid {
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}

// Refresh issues a new token pair based on a valid refresh token.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshTokenString string) (*models.TokenDetails, error) {
	s.logger.Info("Token refresh attempt")
	tok, err := jwt.ParseWithClaims(refreshTokenString, &models.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Warn("Refresh attempt with expired token")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Refresh attempt with malformed token")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Error("Failed to parse refresh token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}

	claims, ok := tok.Claims.(*models.Claims)
	if !ok || !tok.Valid {
		s.logger.Warn("Refresh attempt with invalid token structure or signature")
		return nil, models.ErrTokenInvalid
	}

	refreshUUID := claims.ID
	userID, err := s.tokenRepo.GetUserIDByRefreshUUID(ctx, refreshUUID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Warn("Refresh attempt with revoked token", zap.String("refreshUUID", refreshUUID))
			return nil, models.ErrTokenNotFound
		}
		s.logger.Error("Error checking refresh token existence", zap.Error(err), zap.String("refreshUUID", refreshUUID))
		return nil, fmt.Errorf("error checking refresh token existence: %w", err)
	}

	if userID != claims.UserID {
		s.logger.Error("Refresh token user ID mismatch",
			zap.String("tokenUserID", claims.UserID.String()), zap.String("repoUserID", userID.String()))
		return nil, models.ErrTokenInvalid
	}

	newTd, err := s.createTokens(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create new tokens during refresh: %w", err)
	}

	if _, delErr := s.tokenRepo.DeleteTokens(ctx, claims.UserID, "", refreshUUID); delErr != nil {
		s.logger.Error("Non-critical: failed to delete old refresh token during refresh", zap.Error(delErr), zap.String("refreshUUID", refreshUUID))
	}

	if err := s.tokenRepo.SetToken(ctx, claims.UserID, newTd); err != nil {
		s.logger.Error("Failed to save new token details during refresh", zap.Error(err), zap.String("userID", claims.UserID.String()))
		return nil, fmt.Errorf("failed to save new token details: %w", err)
	}

	s.logger.Info("Token refreshed successfully", zap.String("userID", claims.UserID.String()))
	return newTd, nil
}

// VerifyAccessToken parses and validates an access token string against the
// signature, expiry and the Redis registry.
func (s *authServiceImpl) VerifyAccessToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	s.logger.Debug("Verifying access token")
	tok, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("Access token verification failed: expired")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Access token verification failed: malformed")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Error("Failed to parse access token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}

	claims, ok := tok.Claims.(*models.Claims)
	if !ok || !tok.Valid {
		s.logger.Warn("Access token verification failed (invalid claims type or signature)")
		return nil, models.ErrTokenInvalid
	}

	accessUUID := claims.ID
	if _, err := s.tokenRepo.GetUserIDByAccessUUID(ctx, accessUUID); err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Debug("Access token not found in store (revoked/logged out)", zap.String("accessUUID", accessUUID))
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("Error checking access token existence", zap.Error(err), zap.String("accessUUID", accessUUID))
		return nil, fmt.Errorf("error checking access token existence: %w", err)
	}
	return claims, nil
}

// ConfirmAccount verifies and consumes a confirmation token, then marks the
// account as confirmed.
func (s *authServiceImpl) ConfirmAccount(ctx context.Context, principal models.Principal, tokenString string) error {
	claim, err := s.codec.Verify(tokenString, token.PurposeConfirm)
	if err != nil {
		return err
	}
	log := s.logger.With(zap.String("userID", claim.UserID.String()))

	if principal.IsAuthenticated() && principal.UserID() != claim.UserID {
		log.Warn("Confirmation token subject does not match the acting user",
			zap.String("principalID", principal.UserID().String()))
		return models.ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByID(ctx, claim.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			// Valid signature but the subject is gone; fail closed.
			log.Warn("Confirmation token for missing user")
			return models.ErrTokenInvalid
		}
		return fmt.Errorf("failed to get user for confirmation: %w", err)
	}

	if user.Confirmed {
		log.Info("Account already confirmed")
		return models.ErrAlreadyConfirmed
	}

	if err := s.consumeWorkflowToken(ctx, claim); err != nil {
		return err
	}

	if err := s.userRepo.SetConfirmed(ctx, user.ID, true); err != nil {
		return fmt.Errorf("failed to confirm account: %w", err)
	}
	log.Info("Account confirmed successfully")
	return nil
}

// ResendConfirmation queues a fresh confirmation email.
func (s *authServiceImpl) ResendConfirmation(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Confirmed {
		return models.ErrAlreadyConfirmed
	}
	s.sendWorkflowEmail(ctx, user, token.PurposeConfirm, "")
	return nil
}

// RequestPasswordReset queues a reset email. An unknown address is treated
// as success so the endpoint does not reveal which emails are registered.
func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Info("Password reset requested for unknown email", zap.String("email", email))
			return nil
		}
		return fmt.Errorf("failed to get user for password reset: %w", err)
	}
	s.sendWorkflowEmail(ctx, user, token.PurposeResetPassword, "")
	return nil
}

// ResetPassword verifies and consumes a reset token, replaces the password
// and revokes every live session of the user.
func (s *authServiceImpl) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	if newPassword == "" {
		return models.ErrInvalidInput
	}
	claim, err := s.codec.Verify(tokenString, token.PurposeResetPassword)
	if err != nil {
		return err
	}
	log := s.logger.With(zap.String("userID", claim.UserID.String()))

	user, err := s.userRepo.GetUserByID(ctx, claim.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("Password reset token for missing user")
			return models.ErrTokenInvalid
		}
		return fmt.Errorf("failed to get user for password reset: %w", err)
	}

	if err := s.consumeWorkflowToken(ctx, claim); err != nil {
		return err
	}

	hashedPassword, err := hashPassword(newPassword, s.cfg.PasswordPepper)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if _, delErr := s.tokenRepo.DeleteTokensByUserID(ctx, user.ID); delErr != nil {
		log.Error("Failed to revoke sessions after password reset", zap.Error(delErr))
	}

	log.Info("Password reset successfully")
	return nil
}

// ChangePassword replaces the password for a logged-in user after checking
// the current one, then revokes every live session.
func (s *authServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return models.ErrInvalidInput
	}
	log := s.logger.With(zap.String("userID", userID.String()))

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPasswordHash(oldPassword, user.PasswordHash, s.cfg.PasswordPepper) {
		log.Warn("Password change failed: wrong current password")
		return models.ErrInvalidCredentials
	}

	hashedPassword, err := hashPassword(newPassword, s.cfg.PasswordPepper)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if _, delErr := s.tokenRepo.DeleteTokensByUserID(ctx, userID); delErr != nil {
		log.Error("Failed to revoke sessions after password change", zap.Error(delErr))
	}

	log.Info("Password changed successfully")
	return nil
}

// RequestEmailChange checks the password, verifies the new address is free
// and queues a confirmation email to the NEW address. The stored email only
// changes once that token is presented.
func (s *authServiceImpl) RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail, password string) error {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	log := s.logger.With(zap.String("userID", userID.String()), zap.String("newEmail", newEmail))

	if _, err := mail.ParseAddress(newEmail); err != nil {
		return fmt.Errorf("invalid email format: %w", models.ErrInvalidInput)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		log.Warn("Email change failed: wrong password")
		return models.ErrInvalidCredentials
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, newEmail)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		return fmt.Errorf("error checking new email: %w", err)
	}
	if existing != nil {
		log.Warn("Email change requested for taken address")
		return models.ErrEmailAlreadyExists
	}

	s.sendWorkflowEmail(ctx, user, token.PurposeChangeEmail, newEmail)
	log.Info("Email change requested")
	return nil
}

// ConfirmEmailChange verifies and consumes an email-change token and swaps
// in the address embedded in the token.
func (s *authServiceImpl) ConfirmEmailChange(ctx context.Context, principal models.Principal, tokenString string) error {
	claim, err := s.codec.Verify(tokenString, token.PurposeChangeEmail)
	if err != nil {
		return err
	}
	if claim.NewEmail == "" {
		return models.ErrTokenInvalid
	}
	log := s.logger.With(zap.String("userID", claim.UserID.String()))

	if principal.IsAuthenticated() && principal.UserID() != claim.UserID {
		log.Warn("Email change token subject does not match the acting user",
			zap.String("principalID", principal.UserID().String()))
		return models.ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByID(ctx, claim.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("Email change token for missing user")
			return models.ErrTokenInvalid
		}
		return fmt.Errorf("failed to get user for email change: %w", err)
	}

	if err := s.consumeWorkflowToken(ctx, claim); err != nil {
		return err
	}

	if err := s.userRepo.UpdateEmail(ctx, user.ID, claim.NewEmail); err != nil {
		return err
	}
	log.Info("Email changed successfully")
	return nil
}

// consumeWorkflowToken records the token's JTI and rejects replays.
func (s *authServiceImpl) consumeWorkflowToken(ctx context.Context, claim *token.Claim) error {
	ttl := time.Until(claim.ExpiresAt)
	ok, err := s.consumedRepo.Consume(ctx, claim.JTI, ttl)
	if err != nil {
		return fmt.Errorf("failed to consume workflow token: %w", err)
	}
	if !ok {
		return models.ErrTokenConsumed
	}
	return nil
}

// sendWorkflowEmail issues a signed token and queues the matching email.
// Publish failures are logged but never fail the triggering request.
func (s *authServiceImpl) sendWorkflowEmail(ctx context.Context, user *models.User, purpose token.Purpose, newEmail string) {
	signed, err := s.codec.Issue(token.Claim{
		Purpose:  purpose,
		UserID:   user.ID,
		NewEmail: newEmail,
	}, s.cfg.WorkflowTokenTTL)
	if err != nil {
		s.logger.Error("Failed to issue workflow token", zap.Error(err), zap.String("userID", user.ID.String()), zap.String("purpose", string(purpose)))
		return
	}

	msg := &models.EmailMessage{
		To:       user.Email,
		Username: user.Username,
	}
	switch purpose {
	case token.PurposeConfirm:
		msg.Subject = "Confirm Your Account"
		msg.Template = models.EmailTemplateConfirm
		msg.Link = fmt.Sprintf("%s%s/auth/confirm/%s", s.cfg.PublicBaseURL, models.APIBasePath, signed)
	case token.PurposeResetPassword:
		msg.Subject = "Reset Your Password"
		msg.Template = models.EmailTemplateResetPassword
		msg.Link = fmt.Sprintf("%s%s/auth/reset-password/%s", s.cfg.PublicBaseURL, models.APIBasePath, signed)
	case token.PurposeChangeEmail:
		msg.To = newEmail
		msg.Subject = "Confirm Your New Email Address"
		msg.Template = models.EmailTemplateChangeEmail
		msg.Link = fmt.Sprintf("%s%s/auth/change-email/%s", s.cfg.PublicBaseURL, models.APIBasePath, signed)
	}

	if err := s.publisher.PublishEmail(ctx, msg); err != nil {
		s.logger.Error("Failed to publish workflow email", zap.Error(err), zap.String("to", msg.To), zap.String("purpose", string(purpose)))
	}
}

// --- Helper Functions ---

// applyPepper applies HMAC-SHA256 using the pepper as the key.
func applyPepper(password, pepper string) []byte {
	h := hmac.New(sha256.New, []byte(pepper))
	h.Write([]byte(password))
	return h.Sum(nil)
}

// hashPassword generates a bcrypt hash of the password after applying the pepper.
func hashPassword(password, pepper string) (string, error) {
	pepperedPassword := applyPepper(password, pepper)
	bytes, err := bcrypt.GenerateFromPassword(pepperedPassword, bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPasswordHash compares a plain text password (after applying pepper) with a stored hash.
func checkPasswordHash(password, hash, pepper string) bool {
	pepperedPassword := applyPepper(password, pepper)
	err := bcrypt.CompareHashAndPassword([]byte(hash), pepperedPassword)
	return err == nil
}

// createTokens generates a new access and refresh token pair for a user.
func (s *authServiceImpl) createTokens(userID uuid.UUID) (*models.TokenDetails, error) {
	s.logger.Debug("Creating new token pair", zap.String("userID", userID.String()))

	td := &models.TokenDetails{}
	td.AtExpires = time.Now().Add(s.cfg.AccessTokenTTL).Unix()
	td.AccessUUID = uuid.New().String()
	td.RtExpires = time.Now().Add(s.cfg.RefreshTokenTTL).Unix()
	td.RefreshUUID = uuid.New().String()

	acClaims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        td.AccessUUID,
			ExpiresAt: jwt.NewNumericDate(time.Unix(td.AtExpires, 0)),
			Subject:   userID.String(),
			Issuer:    "recipe-server",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	acToken := jwt.NewWithClaims(jwt.SigningMethodHS256, acClaims)
	var err error
	td.AccessToken, err = acToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	rcClaims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        td.RefreshUUID,
			ExpiresAt: jwt.NewNumericDate(time.Unix(td.RtExpires, 0)),
			Subject:   userID.String(),
			Issuer:    "recipe-server",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	rtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, rcClaims)
	td.RefreshToken, err = rtToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign refresh token", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return td, nil
}
