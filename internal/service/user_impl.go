package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check to ensure userServiceImpl implements UserService
var _ UserService = (*userServiceImpl)(nil)

type userServiceImpl struct {
	userRepo   interfaces.UserRepository
	roleRepo   interfaces.RoleRepository
	postRepo   interfaces.PostRepository
	followRepo interfaces.FollowRepository
	tokenRepo  interfaces.TokenRepository
	logger     *zap.Logger
}

// NewUserService creates a new instance of userServiceImpl.
func NewUserService(
	userRepo interfaces.UserRepository,
	roleRepo interfaces.RoleRepository,
	postRepo interfaces.PostRepository,
	followRepo interfaces.FollowRepository,
	tokenRepo interfaces.TokenRepository,
	logger *zap.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		tokenRepo:  tokenRepo,
		logger:     logger.Named("UserService"),
	}
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

func (s *userServiceImpl) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetUserByUsername(ctx, strings.TrimSpace(username))
}

func (s *userServiceImpl) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	return s.userRepo.ListUsers(ctx, limit, offset)
}

// UserCounts gathers the post/follower/followed counts for a profile.
func (s *userServiceImpl) UserCounts(ctx context.Context, userID uuid.UUID) (models.UserCounts, error) {
	var counts models.UserCounts
	var err error

	if counts.Posts, err = s.postRepo.CountPostsByAuthor(ctx, userID); err != nil {
		return counts, err
	}
	if counts.Followers, err = s.followRepo.CountFollowers(ctx, userID); err != nil {
		return counts, err
	}
	if counts.Followed, err = s.followRepo.CountFollowed(ctx, userID); err != nil {
		return counts, err
	}
	return counts, nil
}

// UpdateProfile applies the provided fields and returns the fresh user.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	log := s.logger.With(zap.String("userID", userID.String()))

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, models.ErrInvalidInput
		}
		if username != user.Username {
			existing, err := s.userRepo.GetUserByUsername(ctx, username)
			if err != nil && !errors.Is(err, models.ErrUserNotFound) {
				return nil, fmt.Errorf("error checking username availability: %w", err)
			}
			if existing != nil {
				log.Warn("Profile update with taken username", zap.String("username", username))
				return nil, models.ErrUserAlreadyExists
			}
		}
		user.Username = username
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.AboutMe != nil {
		user.AboutMe = *input.AboutMe
	}
	if input.ImageFile != nil {
		user.ImageFile = *input.ImageFile
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	log.Info("Profile updated")
	return s.userRepo.GetUserByID(ctx, userID)
}

// DeleteUser removes the account. Posts, comments, follows and favorites go
// with the database cascade; sessions are revoked explicitly.
func (s *userServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	log := s.logger.With(zap.String("userID", userID.String()))

	if _, err := s.tokenRepo.DeleteTokensByUserID(ctx, userID); err != nil {
		log.Error("Failed to revoke sessions before account deletion", zap.Error(err))
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	log.Info("User account deleted")
	return nil
}

// SetUserRole assigns a named role to the user.
func (s *userServiceImpl) SetUserRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	role, err := s.roleRepo.GetRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetRole(ctx, userID, role.ID); err != nil {
		return err
	}
	s.logger.Info("User role assigned", zap.String("userID", userID.String()), zap.String("role", roleName))
	return nil
}

// Follow creates the edge. Following twice is a no-op; following yourself
// is rejected.
func (s *userServiceImpl) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if followerID == followedID {
		return models.ErrSelfFollow
	}
	if _, err := s.userRepo.GetUserByID(ctx, followedID); err != nil {
		return err
	}
	if err := s.followRepo.Follow(ctx, followerID, followedID); err != nil {
		return err
	}
	s.logger.Info("Follow edge ensured",
		zap.String("followerID", followerID.String()), zap.String("followedID", followedID.String()))
	return nil
}

// Unfollow removes the edge. Unfollowing an absent edge is a no-op.
func (s *userServiceImpl) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if _, err := s.userRepo.GetUserByID(ctx, followedID); err != nil {
		return err
	}
	return s.followRepo.Unfollow(ctx, followerID, followedID)
}

func (s *userServiceImpl) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followedID)
}

func (s *userServiceImpl) ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]interfaces.FollowEdge, int64, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.followRepo.ListFollowers(ctx, userID, limit, offset)
}

func (s *userServiceImpl) ListFollowed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]interfaces.FollowEdge, int64, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.followRepo.ListFollowed(ctx, userID, limit, offset)
}
