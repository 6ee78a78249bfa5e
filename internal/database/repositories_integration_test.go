package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"recipe-server/internal/database"
	"recipe-server/internal/interfaces"
	"recipe-server/internal/migration"
	"recipe-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// RepositoryIntegrationSuite runs the repository layer against real
// PostgreSQL and Redis containers.
type RepositoryIntegrationSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	rdContainer *tcredis.RedisContainer
	pool        *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.Logger

	users     interfaces.UserRepository
	roles     interfaces.RoleRepository
	posts     interfaces.PostRepository
	comments  interfaces.CommentRepository
	follows   interfaces.FollowRepository
	favorites interfaces.FavoriteRepository
	tokens    interfaces.TokenRepository
	consumed  interfaces.ConsumedTokenRepository
}

func TestRepositoryIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed integration tests in -short mode")
	}
	suite.Run(t, new(RepositoryIntegrationSuite))
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.logger, err = zap.NewDevelopment()
	require.NoError(s.T(), err, "Failed to create logger for tests")

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	pgConnStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get postgres connection string")

	s.pool, err = pgxpool.New(s.ctx, pgConnStr)
	require.NoError(s.T(), err, "Failed to connect to test postgres")

	err = migration.NewMigrator(migration.Default(), s.pool).Up(s.ctx)
	require.NoError(s.T(), err, "Failed to run migrations")

	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	redisHost, err := s.rdContainer.Host(s.ctx)
	require.NoError(s.T(), err)
	redisPort, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	require.NoError(s.T(), err)

	s.redisClient = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port())})
	_, err = s.redisClient.Ping(s.ctx).Result()
	require.NoError(s.T(), err, "Failed to connect to test redis")

	s.users = database.NewPgUserRepository(s.pool, s.logger)
	s.roles = database.NewPgRoleRepository(s.pool, s.logger)
	s.posts = database.NewPgPostRepository(s.pool, s.logger)
	s.comments = database.NewPgCommentRepository(s.pool, s.logger)
	s.follows = database.NewPgFollowRepository(s.pool, s.logger)
	s.favorites = database.NewPgFavoriteRepository(s.pool, s.logger)
	s.tokens = database.NewRedisTokenRepository(s.redisClient, s.logger)
	s.consumed = database.NewRedisConsumedTokenRepository(s.redisClient, s.logger)

	require.NoError(s.T(), s.roles.SeedRoles(s.ctx), "Failed to seed roles")
}

func (s *RepositoryIntegrationSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
	if s.rdContainer != nil {
		_ = s.rdContainer.Terminate(s.ctx)
	}
}

// createUser inserts a user with the default role and a unique name.
func (s *RepositoryIntegrationSuite) createUser(username string) *models.User {
	role, err := s.roles.GetDefaultRole(s.ctx)
	require.NoError(s.T(), err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "irrelevant-hash",
		ImageFile:    "default.jpg",
		RoleID:       &role.ID,
		Role:         role,
	}
	require.NoError(s.T(), s.users.CreateUser(s.ctx, user))
	require.NotEqual(s.T(), uuid.Nil, user.ID)
	return user
}

// createPost inserts a minimal post for the author.
func (s *RepositoryIntegrationSuite) createPost(author *models.User, title string) *models.Post {
	post := &models.Post{
		Title:           title,
		PostImage:       "default_recipe.jpg",
		Ingredients:     "- flour",
		IngredientsHTML: "<ul><li>flour</li></ul>",
		Preparation:     "Knead.",
		PreparationHTML: "<p>Knead.</p>",
		UserID:          author.ID,
	}
	require.NoError(s.T(), s.posts.CreatePost(s.ctx, post))
	return post
}

func (s *RepositoryIntegrationSuite) TestSeedRolesIsIdempotent() {
	require.NoError(s.T(), s.roles.SeedRoles(s.ctx))

	def, err := s.roles.GetDefaultRole(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.RoleNameUser, def.Name)
	s.True(def.HasPermission(models.PermissionWrite))
	s.False(def.HasPermission(models.PermissionModerate))

	admin, err := s.roles.GetRoleByName(s.ctx, models.RoleNameAdministrator)
	s.Require().NoError(err)
	s.True(admin.HasPermission(models.PermissionAdmin))
	s.False(admin.IsDefault)
}

func (s *RepositoryIntegrationSuite) TestUserLifecycle() {
	user := s.createUser("lifecycle")

	got, err := s.users.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("lifecycle", got.Username)
	s.Require().NotNil(got.Role, "repository should join the role")
	s.Equal(models.RoleNameUser, got.Role.Name)
	s.False(got.Confirmed)

	// Unique violations surface as sentinels.
	dup := &models.User{Username: "lifecycle", Email: "other@example.com", PasswordHash: "x", RoleID: user.RoleID}
	s.ErrorIs(s.users.CreateUser(s.ctx, dup), models.ErrUserAlreadyExists)
	dup = &models.User{Username: "someone-else", Email: "lifecycle@example.com", PasswordHash: "x", RoleID: user.RoleID}
	s.ErrorIs(s.users.CreateUser(s.ctx, dup), models.ErrEmailAlreadyExists)

	s.Require().NoError(s.users.SetConfirmed(s.ctx, user.ID, true))
	got, err = s.users.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.True(got.Confirmed)

	moderator, err := s.roles.GetRoleByName(s.ctx, models.RoleNameModerator)
	s.Require().NoError(err)
	s.Require().NoError(s.users.SetRole(s.ctx, user.ID, moderator.ID))
	got, err = s.users.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(models.RoleNameModerator, got.Role.Name)

	s.Require().NoError(s.users.DeleteUser(s.ctx, user.ID))
	_, err = s.users.GetUserByID(s.ctx, user.ID)
	s.ErrorIs(err, models.ErrUserNotFound)
}

func (s *RepositoryIntegrationSuite) TestFollowGraph() {
	alice := s.createUser("graph-alice")
	bob := s.createUser("graph-bob")

	s.Require().NoError(s.follows.Follow(s.ctx, alice.ID, bob.ID))
	// Inserting the same edge again is a no-op, not an error.
	s.Require().NoError(s.follows.Follow(s.ctx, alice.ID, bob.ID))

	following, err := s.follows.IsFollowing(s.ctx, alice.ID, bob.ID)
	s.Require().NoError(err)
	s.True(following)

	followers, total, err := s.follows.ListFollowers(s.ctx, bob.ID, 10, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(followers, 1)
	s.Equal(alice.ID, followers[0].UserID)
	s.Equal("graph-alice", followers[0].Username)

	count, err := s.follows.CountFollowed(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	s.Require().NoError(s.follows.Unfollow(s.ctx, alice.ID, bob.ID))
	// Deleting an absent edge is also a no-op.
	s.Require().NoError(s.follows.Unfollow(s.ctx, alice.ID, bob.ID))

	following, err = s.follows.IsFollowing(s.ctx, alice.ID, bob.ID)
	s.Require().NoError(err)
	s.False(following)

	// Deleting either endpoint of an edge removes the row.
	s.Require().NoError(s.follows.Follow(s.ctx, alice.ID, bob.ID))
	before, err := s.follows.CountAll(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.users.DeleteUser(s.ctx, bob.ID))
	after, err := s.follows.CountAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(before-1, after)

	count, err = s.follows.CountFollowed(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(int64(0), count)
}

func (s *RepositoryIntegrationSuite) TestPostsCommentsAndFavorites() {
	author := s.createUser("cook")
	reader := s.createUser("reader")
	post := s.createPost(author, "Bread")

	listed, total, err := s.posts.ListPostsByAuthor(s.ctx, author.ID, 10, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(listed, 1)
	s.Equal("Bread", listed[0].Title)

	comment := &models.Comment{Body: "nice", BodyHTML: "<p>nice</p>", UserID: reader.ID, PostID: post.ID}
	s.Require().NoError(s.comments.CreateComment(s.ctx, comment))

	hidden := &models.Comment{Body: "spam", BodyHTML: "<p>spam</p>", UserID: reader.ID, PostID: post.ID}
	s.Require().NoError(s.comments.CreateComment(s.ctx, hidden))
	s.Require().NoError(s.comments.SetDisabled(s.ctx, hidden.ID, true))

	visible, _, err := s.comments.ListCommentsByPost(s.ctx, post.ID, false, 10, 0)
	s.Require().NoError(err)
	s.Len(visible, 1, "disabled comments should be filtered for plain readers")

	all, _, err := s.comments.ListCommentsByPost(s.ctx, post.ID, true, 10, 0)
	s.Require().NoError(err)
	s.Len(all, 2)

	visibleCount, err := s.comments.CountCommentsByPost(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), visibleCount, "the comment count excludes disabled comments")

	s.Require().NoError(s.favorites.AddFavorite(s.ctx, reader.ID, post.ID))
	s.ErrorIs(s.favorites.AddFavorite(s.ctx, reader.ID, post.ID), models.ErrAlreadyFavorited)

	favCount, err := s.favorites.CountFavorites(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), favCount)

	s.Require().NoError(s.favorites.RemoveFavorite(s.ctx, reader.ID, post.ID))
	s.ErrorIs(s.favorites.RemoveFavorite(s.ctx, reader.ID, post.ID), models.ErrFavoriteNotFound)

	// Deleting the author cascades to their posts and comments.
	s.Require().NoError(s.users.DeleteUser(s.ctx, author.ID))
	_, err = s.posts.GetPostByID(s.ctx, post.ID)
	s.ErrorIs(err, models.ErrPostNotFound)
}

func (s *RepositoryIntegrationSuite) TestTokenRegistry() {
	userID := uuid.New()
	td := &models.TokenDetails{
		AccessUUID:  uuid.NewString(),
		RefreshUUID: uuid.NewString(),
		AtExpires:   time.Now().Add(15 * time.Minute).Unix(),
		RtExpires:   time.Now().Add(168 * time.Hour).Unix(),
	}

	s.Require().NoError(s.tokens.SetToken(s.ctx, userID, td))

	got, err := s.tokens.GetUserIDByAccessUUID(s.ctx, td.AccessUUID)
	s.Require().NoError(err)
	s.Equal(userID, got)

	got, err = s.tokens.GetUserIDByRefreshUUID(s.ctx, td.RefreshUUID)
	s.Require().NoError(err)
	s.Equal(userID, got)

	deleted, err := s.tokens.DeleteTokens(s.ctx, userID, td.AccessUUID, td.RefreshUUID)
	s.Require().NoError(err)
	s.Equal(int64(2), deleted)

	_, err = s.tokens.GetUserIDByAccessUUID(s.ctx, td.AccessUUID)
	s.ErrorIs(err, models.ErrTokenNotFound)
}

func (s *RepositoryIntegrationSuite) TestDeleteTokensByUserID() {
	userID := uuid.New()
	for i := 0; i < 2; i++ {
		td := &models.TokenDetails{
			AccessUUID:  uuid.NewString(),
			RefreshUUID: uuid.NewString(),
			AtExpires:   time.Now().Add(15 * time.Minute).Unix(),
			RtExpires:   time.Now().Add(168 * time.Hour).Unix(),
		}
		s.Require().NoError(s.tokens.SetToken(s.ctx, userID, td))
	}

	deleted, err := s.tokens.DeleteTokensByUserID(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(int64(4), deleted, "both pairs should be revoked")
}

func (s *RepositoryIntegrationSuite) TestConsumedTokens() {
	jti := uuid.NewString()

	ok, err := s.consumed.Consume(s.ctx, jti, time.Minute)
	s.Require().NoError(err)
	s.True(ok, "first consumption should succeed")

	ok, err = s.consumed.Consume(s.ctx, jti, time.Minute)
	s.Require().NoError(err)
	s.False(ok, "a replay must be rejected")
}
