package service

import (
	"context"
	"testing"
	"time"

	"recipe-server/internal/config"
	"recipe-server/internal/interfaces/mocks"
	"recipe-server/internal/models"
	"recipe-server/internal/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHashAndCheckPassword(t *testing.T) {
	password := "mysecretpassword"
	pepper := "test-pepper-for-unit-tests"

	hashedPassword, err := hashPassword(password, pepper)
	require.NoError(t, err, "hashPassword should not return an error")
	require.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, password, hashedPassword)

	assert.True(t, checkPasswordHash(password, hashedPassword, pepper))
	assert.False(t, checkPasswordHash("wrongpassword", hashedPassword, pepper))
	assert.False(t, checkPasswordHash(password, hashedPassword, "another-pepper"),
		"a different pepper must not verify")
	assert.False(t, checkPasswordHash(password, "not-a-bcrypt-hash", pepper))
}

type authTestDeps struct {
	userRepo     *mocks.UserRepository
	roleRepo     *mocks.RoleRepository
	tokenRepo    *mocks.TokenRepository
	consumedRepo *mocks.ConsumedTokenRepository
	publisher    *mocks.EmailPublisher
	codec        *token.Codec
	cfg          *config.Config
}

func newTestAuthService() (AuthService, *authTestDeps) {
	deps := &authTestDeps{
		userRepo:     new(mocks.UserRepository),
		roleRepo:     new(mocks.RoleRepository),
		tokenRepo:    new(mocks.TokenRepository),
		consumedRepo: new(mocks.ConsumedTokenRepository),
		publisher:    new(mocks.EmailPublisher),
		codec:        token.NewCodec("workflow-test-secret", "recipe-server"),
		cfg: &config.Config{
			JWTSecret:        "jwt-test-secret",
			PasswordPepper:   "test-pepper",
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  168 * time.Hour,
			WorkflowTokenTTL: time.Hour,
			PublicBaseURL:    "http://localhost:8080",
			AdminEmail:       "admin@recblog.demo",
		},
	}
	svc := NewAuthService(deps.userRepo, deps.roleRepo, deps.tokenRepo, deps.consumedRepo,
		deps.codec, deps.publisher, deps.cfg, zap.NewNop())
	return svc, deps
}

func defaultTestRole() *models.Role {
	role := &models.Role{ID: 1, Name: models.RoleNameUser, IsDefault: true}
	for _, perm := range models.SeededRolePermissions()[models.RoleNameUser] {
		role.AddPermission(perm)
	}
	return role
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful registration with default role", func(t *testing.T) {
		svc, deps := newTestAuthService()

		deps.userRepo.On("GetUserByUsername", ctx, "alice").Return(nil, models.ErrUserNotFound).Once()
		deps.userRepo.On("GetUserByEmail", ctx, "alice@example.com").Return(nil, models.ErrUserNotFound).Once()
		deps.roleRepo.On("GetDefaultRole", ctx).Return(defaultTestRole(), nil).Once()
		deps.userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			assert.Equal(t, "alice", u.Username)
			assert.Equal(t, "alice@example.com", u.Email)
			assert.Equal(t, "default.jpg", u.ImageFile)
			assert.NotEmpty(t, u.PasswordHash)
			assert.NotEqual(t, "password123", u.PasswordHash)
			return true
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = uuid.New()
		}).Return(nil).Once()
		deps.publisher.On("PublishEmail", ctx, mock.MatchedBy(func(msg *models.EmailMessage) bool {
			assert.Equal(t, "alice@example.com", msg.To)
			assert.Equal(t, models.EmailTemplateConfirm, msg.Template)
			assert.Contains(t, msg.Link, "/auth/confirm/")
			return true
		})).Return(nil).Once()

		user, err := svc.Register(ctx, "alice", "Alice@Example.com", "password123")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "alice@example.com", user.Email, "email should be normalized to lower case")
		assert.Equal(t, models.RoleNameUser, user.Role.Name)

		deps.userRepo.AssertExpectations(t)
		deps.roleRepo.AssertExpectations(t)
		deps.publisher.AssertExpectations(t)
	})

	t.Run("Admin email gets the Administrator role", func(t *testing.T) {
		svc, deps := newTestAuthService()
		adminRole := &models.Role{ID: 3, Name: models.RoleNameAdministrator}

		deps.userRepo.On("GetUserByUsername", ctx, "root").Return(nil, models.ErrUserNotFound).Once()
		deps.userRepo.On("GetUserByEmail", ctx, "admin@recblog.demo").Return(nil, models.ErrUserNotFound).Once()
		deps.roleRepo.On("GetRoleByName", ctx, models.RoleNameAdministrator).Return(adminRole, nil).Once()
		deps.userRepo.On("CreateUser", ctx, mock.Anything).Return(nil).Once()
		deps.publisher.On("PublishEmail", ctx, mock.Anything).Return(nil).Once()

		user, err := svc.Register(ctx, "root", "admin@recblog.demo", "password123")
		require.NoError(t, err)
		assert.Equal(t, models.RoleNameAdministrator, user.Role.Name)

		deps.roleRepo.AssertExpectations(t)
		deps.roleRepo.AssertNotCalled(t, "GetDefaultRole", mock.Anything)
	})

	t.Run("Duplicate username is rejected before insert", func(t *testing.T) {
		svc, deps := newTestAuthService()

		deps.userRepo.On("GetUserByUsername", ctx, "alice").
			Return(&models.User{ID: uuid.New(), Username: "alice"}, nil).Once()

		user, err := svc.Register(ctx, "alice", "other@example.com", "password123")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, models.ErrUserAlreadyExists)

		deps.userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		deps.publisher.AssertNotCalled(t, "PublishEmail", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate email is rejected before insert", func(t *testing.T) {
		svc, deps := newTestAuthService()

		deps.userRepo.On("GetUserByUsername", ctx, "bob").Return(nil, models.ErrUserNotFound).Once()
		deps.userRepo.On("GetUserByEmail", ctx, "taken@example.com").
			Return(&models.User{ID: uuid.New()}, nil).Once()

		user, err := svc.Register(ctx, "bob", "taken@example.com", "password123")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, models.ErrEmailAlreadyExists)
	})

	t.Run("Invalid email format", func(t *testing.T) {
		svc, deps := newTestAuthService()

		user, err := svc.Register(ctx, "carol", "not-an-email", "password123")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, models.ErrInvalidInput)

		deps.userRepo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful login", func(t *testing.T) {
		svc, deps := newTestAuthService()

		hash, err := hashPassword("password123", deps.cfg.PasswordPepper)
		require.NoError(t, err)
		user := &models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: hash}

		deps.userRepo.On("GetUserByEmail", ctx, "alice@example.com").Return(user, nil).Once()
		deps.tokenRepo.On("SetToken", ctx, user.ID, mock.AnythingOfType("*models.TokenDetails")).Return(nil).Once()
		deps.userRepo.On("TouchLastSeen", ctx, user.ID).Return(nil).Once()

		td, err := svc.Login(ctx, "Alice@Example.com", "password123")
		require.NoError(t, err)
		require.NotNil(t, td)
		assert.NotEmpty(t, td.AccessToken)
		assert.NotEmpty(t, td.RefreshToken)
		assert.NotEqual(t, td.AccessUUID, td.RefreshUUID)
		assert.Greater(t, td.RtExpires, td.AtExpires)

		deps.userRepo.AssertExpectations(t)
		deps.tokenRepo.AssertExpectations(t)
	})

	t.Run("Wrong password", func(t *testing.T) {
		svc, deps := newTestAuthService()

		hash, err := hashPassword("password123", deps.cfg.PasswordPepper)
		require.NoError(t, err)
		user := &models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: hash}

		deps.userRepo.On("GetUserByEmail", ctx, "alice@example.com").Return(user, nil).Once()

		td, err := svc.Login(ctx, "alice@example.com", "wrongpassword")
		assert.Nil(t, td)
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)

		deps.tokenRepo.AssertNotCalled(t, "SetToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown email maps to invalid credentials", func(t *testing.T) {
		svc, deps := newTestAuthService()

		deps.userRepo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, models.ErrUserNotFound).Once()

		td, err := svc.Login(ctx, "ghost@example.com", "password123")
		assert.Nil(t, td)
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})
}

func TestVerifyAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid registered token", func(t *testing.T) {
		svc, deps := newTestAuthService()

		hash, err := hashPassword("password123", deps.cfg.PasswordPepper)
		require.NoError(t, err)
		user := &models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: hash}

		deps.userRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()
		deps.tokenRepo.On("SetToken", ctx, user.ID, mock.Anything).Return(nil).Once()
		deps.userRepo.On("TouchLastSeen", ctx, user.ID).Return(nil).Once()

		td, err := svc.Login(ctx, user.Email, "password123")
		require.NoError(t, err)

		deps.tokenRepo.On("GetUserIDByAccessUUID", ctx, td.AccessUUID).Return(user.ID, nil).Once()

		claims, err := svc.VerifyAccessToken(ctx, td.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, td.AccessUUID, claims.ID)
	})

	t.Run("Revoked token is rejected", func(t *testing.T) {
		svc, deps := newTestAuthService()

		hash, err := hashPassword("password123", deps.cfg.PasswordPepper)
		require.NoError(t, err)
		user := &models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: hash}

		deps.userRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()
		deps.tokenRepo.On("SetToken", ctx, user.ID, mock.Anything).Return(nil).Once()
		deps.userRepo.On("TouchLastSeen", ctx, user.ID).Return(nil).Once()

		td, err := svc.Login(ctx, user.Email, "password123")
		require.NoError(t, err)

		deps.tokenRepo.On("GetUserIDByAccessUUID", ctx, td.AccessUUID).
			Return(uuid.Nil, models.ErrTokenNotFound).Once()

		claims, err := svc.VerifyAccessToken(ctx, td.AccessToken)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})

	t.Run("Garbage token", func(t *testing.T) {
		svc, _ := newTestAuthService()

		claims, err := svc.VerifyAccessToken(ctx, "garbage")
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, models.ErrTokenMalformed)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Revoked refresh token", func(t *testing.T) {
		svc, deps := newTestAuthService()

		hash, err := hashPassword("password123", deps.cfg.PasswordPepper)
		require.NoError(t, err)
		user := &models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: hash}

		deps.userRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()
		deps.tokenRepo.On("SetToken", ctx, user.ID, mock.Anything).Return(nil).Once()
		deps.userRepo.On("TouchLastSeen", ctx, user.ID).Return(nil).Once()

		td, err := svc.Login(ctx, user.Email, "password123")
		require.NoError(t, err)

		deps.tokenRepo.On("GetUserIDByRefreshUUID", ctx, td.RefreshUUID).
			Return(uuid.Nil, models.ErrTokenNotFound).Once()

		newTd, err := svc.Refresh(ctx, td.RefreshToken)
		assert.Nil(t, newTd)
		assert.ErrorIs(t, err, models.ErrTokenNotFound)
	})

	t.Run("Valid refresh rotates the pair", func(t *testing.T) {
		svc, deps := newTestAuthService()

		hash, err := hashPassword("password123", deps.cfg.PasswordPepper)
		require.NoError(t, err)
		user := &models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: hash}

		deps.userRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()
		deps.tokenRepo.On("SetToken", ctx, user.ID, mock.Anything).Return(nil).Twice()
		deps.userRepo.On("TouchLastSeen", ctx, user.ID).Return(nil).Once()

		td, err := svc.Login(ctx, user.Email, "password123")
		require.NoError(t, err)

		deps.tokenRepo.On("GetUserIDByRefreshUUID", ctx, td.RefreshUUID).Return(user.ID, nil).Once()
		deps.tokenRepo.On("DeleteTokens", ctx, user.ID, "", td.RefreshUUID).Return(int64(1), nil).Once()

		newTd, err := svc.Refresh(ctx, td.RefreshToken)
		require.NoError(t, err)
		require.NotNil(t, newTd)
		assert.NotEqual(t, td.RefreshUUID, newTd.RefreshUUID)
		assert.NotEqual(t, td.AccessUUID, newTd.AccessUUID)

		deps.tokenRepo.AssertExpectations(t)
	})
}

func TestConfirmAccount(t *testing.T) {
	ctx := context.Background()

	issueConfirmToken := func(deps *authTestDeps, userID uuid.UUID) string {
		signed, err := deps.codec.Issue(token.Claim{Purpose: token.PurposeConfirm, UserID: userID}, time.Hour)
		if err != nil {
			panic(err)
		}
		return signed
	}

	t.Run("Successful confirmation", func(t *testing.T) {
		svc, deps := newTestAuthService()
		userID := uuid.New()
		signed := issueConfirmToken(deps, userID)

		deps.userRepo.On("GetUserByID", ctx, userID).
			Return(&models.User{ID: userID, Confirmed: false}, nil).Once()
		deps.consumedRepo.On("Consume", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).
			Return(true, nil).Once()
		deps.userRepo.On("SetConfirmed", ctx, userID, true).Return(nil).Once()

		err := svc.ConfirmAccount(ctx, models.AnonymousPrincipal{}, signed)
		require.NoError(t, err)

		deps.userRepo.AssertExpectations(t)
		deps.consumedRepo.AssertExpectations(t)
	})

	t.Run("Replayed token is rejected", func(t *testing.T) {
		svc, deps := newTestAuthService()
		userID := uuid.New()
		signed := issueConfirmToken(deps, userID)

		deps.userRepo.On("GetUserByID", ctx, userID).
			Return(&models.User{ID: userID, Confirmed: false}, nil).Once()
		deps.consumedRepo.On("Consume", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).
			Return(false, nil).Once()

		err := svc.ConfirmAccount(ctx, models.AnonymousPrincipal{}, signed)
		assert.ErrorIs(t, err, models.ErrTokenConsumed)

		deps.userRepo.AssertNotCalled(t, "SetConfirmed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Already confirmed account", func(t *testing.T) {
		svc, deps := newTestAuthService()
		userID := uuid.New()
		signed := issueConfirmToken(deps, userID)

		deps.userRepo.On("GetUserByID", ctx, userID).
			Return(&models.User{ID: userID, Confirmed: true}, nil).Once()

		err := svc.ConfirmAccount(ctx, models.AnonymousPrincipal{}, signed)
		assert.ErrorIs(t, err, models.ErrAlreadyConfirmed)

		deps.consumedRepo.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing user fails closed", func(t *testing.T) {
		svc, deps := newTestAuthService()
		userID := uuid.New()
		signed := issueConfirmToken(deps, userID)

		deps.userRepo.On("GetUserByID", ctx, userID).Return(nil, models.ErrUserNotFound).Once()

		err := svc.ConfirmAccount(ctx, models.AnonymousPrincipal{}, signed)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})

	t.Run("Token minted for someone else fails closed", func(t *testing.T) {
		svc, deps := newTestAuthService()
		signed := issueConfirmToken(deps, uuid.New())
		principal := models.NewAuthenticatedPrincipal(&models.User{ID: uuid.New()})

		err := svc.ConfirmAccount(ctx, principal, signed)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)

		deps.userRepo.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
		deps.consumedRepo.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Reset token presented to the confirm workflow", func(t *testing.T) {
		svc, deps := newTestAuthService()

		signed, err := deps.codec.Issue(token.Claim{Purpose: token.PurposeResetPassword, UserID: uuid.New()}, time.Hour)
		require.NoError(t, err)

		err = svc.ConfirmAccount(ctx, models.AnonymousPrincipal{}, signed)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})
}

func TestRequestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown email succeeds silently", func(t *testing.T) {
		svc, deps := newTestAuthService()

		deps.userRepo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, models.ErrUserNotFound).Once()

		err := svc.RequestPasswordReset(ctx, "ghost@example.com")
		assert.NoError(t, err)

		deps.publisher.AssertNotCalled(t, "PublishEmail", mock.Anything, mock.Anything)
	})

	t.Run("Known email queues a reset message", func(t *testing.T) {
		svc, deps := newTestAuthService()
		user := &models.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}

		deps.userRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()
		deps.publisher.On("PublishEmail", ctx, mock.MatchedBy(func(msg *models.EmailMessage) bool {
			assert.Equal(t, models.EmailTemplateResetPassword, msg.Template)
			assert.Contains(t, msg.Link, "/auth/reset-password/")
			return true
		})).Return(nil).Once()

		err := svc.RequestPasswordReset(ctx, user.Email)
		assert.NoError(t, err)

		deps.publisher.AssertExpectations(t)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Wrong current password", func(t *testing.T) {
		svc, deps := newTestAuthService()

		hash, err := hashPassword("password123", deps.cfg.PasswordPepper)
		require.NoError(t, err)
		user := &models.User{ID: uuid.New(), PasswordHash: hash}

		deps.userRepo.On("GetUserByID", ctx, user.ID).Return(user, nil).Once()

		err = svc.ChangePassword(ctx, user.ID, "wrongpassword", "newpassword1")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)

		deps.userRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Successful change revokes all sessions", func(t *testing.T) {
		svc, deps := newTestAuthService()

		hash, err := hashPassword("password123", deps.cfg.PasswordPepper)
		require.NoError(t, err)
		user := &models.User{ID: uuid.New(), PasswordHash: hash}

		deps.userRepo.On("GetUserByID", ctx, user.ID).Return(user, nil).Once()
		deps.userRepo.On("UpdatePasswordHash", ctx, user.ID, mock.AnythingOfType("string")).Return(nil).Once()
		deps.tokenRepo.On("DeleteTokensByUserID", ctx, user.ID).Return(int64(2), nil).Once()

		err = svc.ChangePassword(ctx, user.ID, "password123", "newpassword1")
		require.NoError(t, err)

		deps.tokenRepo.AssertExpectations(t)
	})
}

func TestConfirmEmailChange(t *testing.T) {
	ctx := context.Background()

	t.Run("Swaps in the embedded address", func(t *testing.T) {
		svc, deps := newTestAuthService()
		userID := uuid.New()

		signed, err := deps.codec.Issue(token.Claim{
			Purpose:  token.PurposeChangeEmail,
			UserID:   userID,
			NewEmail: "new@example.com",
		}, time.Hour)
		require.NoError(t, err)

		deps.userRepo.On("GetUserByID", ctx, userID).
			Return(&models.User{ID: userID, Email: "old@example.com"}, nil).Once()
		deps.consumedRepo.On("Consume", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).
			Return(true, nil).Once()
		deps.userRepo.On("UpdateEmail", ctx, userID, "new@example.com").Return(nil).Once()

		err = svc.ConfirmEmailChange(ctx, models.AnonymousPrincipal{}, signed)
		require.NoError(t, err)

		deps.userRepo.AssertExpectations(t)
	})

	t.Run("Token minted for someone else fails closed", func(t *testing.T) {
		svc, deps := newTestAuthService()

		signed, err := deps.codec.Issue(token.Claim{
			Purpose:  token.PurposeChangeEmail,
			UserID:   uuid.New(),
			NewEmail: "new@example.com",
		}, time.Hour)
		require.NoError(t, err)

		principal := models.NewAuthenticatedPrincipal(&models.User{ID: uuid.New()})
		err = svc.ConfirmEmailChange(ctx, principal, signed)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)

		deps.userRepo.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Token without an embedded address is invalid", func(t *testing.T) {
		svc, deps := newTestAuthService()

		signed, err := deps.codec.Issue(token.Claim{
			Purpose: token.PurposeChangeEmail,
			UserID:  uuid.New(),
		}, time.Hour)
		require.NoError(t, err)

		err = svc.ConfirmEmailChange(ctx, models.AnonymousPrincipal{}, signed)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)

		deps.userRepo.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
	})
}
