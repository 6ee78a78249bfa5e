package service

import (
	"context"
	"testing"

	"recipe-server/internal/interfaces/mocks"
	"recipe-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userTestDeps struct {
	userRepo   *mocks.UserRepository
	roleRepo   *mocks.RoleRepository
	postRepo   *mocks.PostRepository
	followRepo *mocks.FollowRepository
	tokenRepo  *mocks.TokenRepository
}

func newTestUserService() (UserService, *userTestDeps) {
	deps := &userTestDeps{
		userRepo:   new(mocks.UserRepository),
		roleRepo:   new(mocks.RoleRepository),
		postRepo:   new(mocks.PostRepository),
		followRepo: new(mocks.FollowRepository),
		tokenRepo:  new(mocks.TokenRepository),
	}
	svc := NewUserService(deps.userRepo, deps.roleRepo, deps.postRepo, deps.followRepo,
		deps.tokenRepo, zap.NewNop())
	return svc, deps
}

func TestFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("Following yourself is rejected", func(t *testing.T) {
		svc, deps := newTestUserService()
		userID := uuid.New()

		err := svc.Follow(ctx, userID, userID)
		assert.ErrorIs(t, err, models.ErrSelfFollow)

		deps.followRepo.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Following a missing user", func(t *testing.T) {
		svc, deps := newTestUserService()
		followerID, followedID := uuid.New(), uuid.New()

		deps.userRepo.On("GetUserByID", ctx, followedID).Return(nil, models.ErrUserNotFound).Once()

		err := svc.Follow(ctx, followerID, followedID)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})

	t.Run("Successful follow", func(t *testing.T) {
		svc, deps := newTestUserService()
		followerID, followedID := uuid.New(), uuid.New()

		deps.userRepo.On("GetUserByID", ctx, followedID).
			Return(&models.User{ID: followedID}, nil).Once()
		deps.followRepo.On("Follow", ctx, followerID, followedID).Return(nil).Once()

		err := svc.Follow(ctx, followerID, followedID)
		require.NoError(t, err)

		deps.followRepo.AssertExpectations(t)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Taken username is rejected", func(t *testing.T) {
		svc, deps := newTestUserService()
		userID := uuid.New()
		taken := "taken"

		deps.userRepo.On("GetUserByID", ctx, userID).
			Return(&models.User{ID: userID, Username: "old"}, nil).Once()
		deps.userRepo.On("GetUserByUsername", ctx, "taken").
			Return(&models.User{ID: uuid.New(), Username: "taken"}, nil).Once()

		user, err := svc.UpdateProfile(ctx, userID, UpdateProfileInput{Username: &taken})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, models.ErrUserAlreadyExists)

		deps.userRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
	})

	t.Run("Keeping the current username skips the availability check", func(t *testing.T) {
		svc, deps := newTestUserService()
		userID := uuid.New()
		same := "alice"
		location := "Lisbon"

		deps.userRepo.On("GetUserByID", ctx, userID).
			Return(&models.User{ID: userID, Username: "alice"}, nil).Twice()
		deps.userRepo.On("UpdateProfile", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "alice" && u.Location == "Lisbon"
		})).Return(nil).Once()

		_, err := svc.UpdateProfile(ctx, userID, UpdateProfileInput{Username: &same, Location: &location})
		require.NoError(t, err)

		deps.userRepo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})

	t.Run("Blank username is invalid", func(t *testing.T) {
		svc, deps := newTestUserService()
		userID := uuid.New()
		blank := "   "

		deps.userRepo.On("GetUserByID", ctx, userID).
			Return(&models.User{ID: userID, Username: "alice"}, nil).Once()

		user, err := svc.UpdateProfile(ctx, userID, UpdateProfileInput{Username: &blank})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestUserService()
	userID := uuid.New()

	deps.tokenRepo.On("DeleteTokensByUserID", ctx, userID).Return(int64(2), nil).Once()
	deps.userRepo.On("DeleteUser", ctx, userID).Return(nil).Once()

	err := svc.DeleteUser(ctx, userID)
	require.NoError(t, err)

	deps.tokenRepo.AssertExpectations(t)
	deps.userRepo.AssertExpectations(t)
}

func TestSetUserRole(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown role name", func(t *testing.T) {
		svc, deps := newTestUserService()
		userID := uuid.New()

		deps.roleRepo.On("GetRoleByName", ctx, "Overlord").Return(nil, models.ErrRoleNotFound).Once()

		err := svc.SetUserRole(ctx, userID, "Overlord")
		assert.ErrorIs(t, err, models.ErrRoleNotFound)

		deps.userRepo.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Successful assignment", func(t *testing.T) {
		svc, deps := newTestUserService()
		userID := uuid.New()

		deps.roleRepo.On("GetRoleByName", ctx, models.RoleNameModerator).
			Return(&models.Role{ID: 2, Name: models.RoleNameModerator}, nil).Once()
		deps.userRepo.On("SetRole", ctx, userID, int64(2)).Return(nil).Once()

		err := svc.SetUserRole(ctx, userID, models.RoleNameModerator)
		require.NoError(t, err)

		deps.userRepo.AssertExpectations(t)
	})
}

func TestUserCountsAggregation(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestUserService()
	userID := uuid.New()

	deps.postRepo.On("CountPostsByAuthor", ctx, userID).Return(int64(7), nil).Once()
	deps.followRepo.On("CountFollowers", ctx, userID).Return(int64(3), nil).Once()
	deps.followRepo.On("CountFollowed", ctx, userID).Return(int64(5), nil).Once()

	counts, err := svc.UserCounts(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.UserCounts{Posts: 7, Followers: 3, Followed: 5}, counts)
}
