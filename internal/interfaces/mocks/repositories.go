package mocks

import (
	"context"
	"time"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}
func (m *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}
func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}
func (m *UserRepository) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(0).([]models.User)
	return users, args.Get(1).(int64), args.Error(2)
}
func (m *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *UserRepository) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}
func (m *UserRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}
func (m *UserRepository) SetConfirmed(ctx context.Context, userID uuid.UUID, confirmed bool) error {
	args := m.Called(ctx, userID, confirmed)
	return args.Error(0)
}
func (m *UserRepository) SetRole(ctx context.Context, userID uuid.UUID, roleID int64) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}
func (m *UserRepository) TouchLastSeen(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *UserRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Mock RoleRepository
type RoleRepository struct {
	mock.Mock
}

func (m *RoleRepository) SeedRoles(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *RoleRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	args := m.Called(ctx, name)
	r, _ := args.Get(0).(*models.Role)
	return r, args.Error(1)
}
func (m *RoleRepository) GetDefaultRole(ctx context.Context) (*models.Role, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*models.Role)
	return r, args.Error(1)
}

// Mock PostRepository
type PostRepository struct {
	mock.Mock
}

func (m *PostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}
func (m *PostRepository) GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Post)
	return p, args.Error(1)
}
func (m *PostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}
func (m *PostRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *PostRepository) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	args := m.Called(ctx, limit, offset)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Get(1).(int64), args.Error(2)
}
func (m *PostRepository) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Post, int64, error) {
	args := m.Called(ctx, authorID, limit, offset)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Get(1).(int64), args.Error(2)
}
func (m *PostRepository) ListFollowedPosts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Get(1).(int64), args.Error(2)
}
func (m *PostRepository) CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock CommentRepository
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}
func (m *CommentRepository) GetCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Comment)
	return c, args.Error(1)
}
func (m *CommentRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}
func (m *CommentRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *CommentRepository) ListComments(ctx context.Context, limit, offset int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, limit, offset)
	comments, _ := args.Get(0).([]models.Comment)
	return comments, args.Get(1).(int64), args.Error(2)
}
func (m *CommentRepository) ListCommentsByPost(ctx context.Context, postID uuid.UUID, includeDisabled bool, limit, offset int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, postID, includeDisabled, limit, offset)
	comments, _ := args.Get(0).([]models.Comment)
	return comments, args.Get(1).(int64), args.Error(2)
}
func (m *CommentRepository) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	args := m.Called(ctx, id, disabled)
	return args.Error(0)
}
func (m *CommentRepository) CountCommentsByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock FollowRepository
type FollowRepository struct {
	mock.Mock
}

func (m *FollowRepository) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}
func (m *FollowRepository) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}
func (m *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}
func (m *FollowRepository) ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]interfaces.FollowEdge, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	edges, _ := args.Get(0).([]interfaces.FollowEdge)
	return edges, args.Get(1).(int64), args.Error(2)
}
func (m *FollowRepository) ListFollowed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]interfaces.FollowEdge, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	edges, _ := args.Get(0).([]interfaces.FollowEdge)
	return edges, args.Get(1).(int64), args.Error(2)
}
func (m *FollowRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *FollowRepository) CountFollowed(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *FollowRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Mock FavoriteRepository
type FavoriteRepository struct {
	mock.Mock
}

func (m *FavoriteRepository) AddFavorite(ctx context.Context, userID, postID uuid.UUID) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}
func (m *FavoriteRepository) RemoveFavorite(ctx context.Context, userID, postID uuid.UUID) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}
func (m *FavoriteRepository) IsFavorited(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}
func (m *FavoriteRepository) ListFavoriters(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.FavoritePost, int64, error) {
	args := m.Called(ctx, postID, limit, offset)
	favorites, _ := args.Get(0).([]models.FavoritePost)
	return favorites, args.Get(1).(int64), args.Error(2)
}
func (m *FavoriteRepository) CountFavorites(ctx context.Context, postID uuid.UUID) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock TokenRepository
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error {
	args := m.Called(ctx, userID, td)
	return args.Error(0)
}
func (m *TokenRepository) GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error) {
	args := m.Called(ctx, accessUUID)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}
func (m *TokenRepository) GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error) {
	args := m.Called(ctx, refreshUUID)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}
func (m *TokenRepository) DeleteTokens(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) (int64, error) {
	args := m.Called(ctx, userID, accessUUID, refreshUUID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *TokenRepository) DeleteTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock ConsumedTokenRepository
type ConsumedTokenRepository struct {
	mock.Mock
}

func (m *ConsumedTokenRepository) Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, jti, ttl)
	return args.Bool(0), args.Error(1)
}

// Mock EmailPublisher
type EmailPublisher struct {
	mock.Mock
}

func (m *EmailPublisher) PublishEmail(ctx context.Context, msg *models.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// Compile-time checks
var (
	_ interfaces.UserRepository          = (*UserRepository)(nil)
	_ interfaces.RoleRepository          = (*RoleRepository)(nil)
	_ interfaces.PostRepository          = (*PostRepository)(nil)
	_ interfaces.CommentRepository       = (*CommentRepository)(nil)
	_ interfaces.FollowRepository        = (*FollowRepository)(nil)
	_ interfaces.FavoriteRepository      = (*FavoriteRepository)(nil)
	_ interfaces.TokenRepository         = (*TokenRepository)(nil)
	_ interfaces.ConsumedTokenRepository = (*ConsumedTokenRepository)(nil)
	_ interfaces.EmailPublisher          = (*EmailPublisher)(nil)
)
