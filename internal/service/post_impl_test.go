package service

import (
	"context"
	"testing"

	"recipe-server/internal/interfaces/mocks"
	"recipe-server/internal/models"
	"recipe-server/internal/render"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type postTestDeps struct {
	postRepo     *mocks.PostRepository
	commentRepo  *mocks.CommentRepository
	favoriteRepo *mocks.FavoriteRepository
}

func newTestPostService() (PostService, *postTestDeps) {
	deps := &postTestDeps{
		postRepo:     new(mocks.PostRepository),
		commentRepo:  new(mocks.CommentRepository),
		favoriteRepo: new(mocks.FavoriteRepository),
	}
	svc := NewPostService(deps.postRepo, deps.commentRepo, deps.favoriteRepo,
		render.New(), zap.NewNop())
	return svc, deps
}

func writerUser() *models.User {
	role := &models.Role{Name: models.RoleNameUser}
	for _, perm := range models.SeededRolePermissions()[models.RoleNameUser] {
		role.AddPermission(perm)
	}
	return &models.User{ID: uuid.New(), Username: "author", Role: role}
}

func adminUser() *models.User {
	role := &models.Role{Name: models.RoleNameAdministrator}
	for _, perm := range models.SeededRolePermissions()[models.RoleNameAdministrator] {
		role.AddPermission(perm)
	}
	return &models.User{ID: uuid.New(), Username: "root", Role: role}
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("Renders markdown and defaults the image", func(t *testing.T) {
		svc, deps := newTestPostService()
		author := writerUser()

		deps.postRepo.On("CreatePost", ctx, mock.MatchedBy(func(p *models.Post) bool {
			assert.Equal(t, author.ID, p.UserID)
			assert.Equal(t, "default_recipe.jpg", p.PostImage)
			assert.Contains(t, p.IngredientsHTML, "<li>flour</li>")
			assert.Contains(t, p.PreparationHTML, "<em>gently</em>")
			return true
		})).Return(nil).Once()

		post, err := svc.CreatePost(ctx, author, CreatePostInput{
			Title:       "Bread",
			Ingredients: "- flour\n- water",
			Preparation: "Knead *gently* for ten minutes.",
		})
		require.NoError(t, err)
		require.NotNil(t, post)

		deps.postRepo.AssertExpectations(t)
	})

	t.Run("Blank required fields are rejected", func(t *testing.T) {
		svc, deps := newTestPostService()
		author := writerUser()

		for _, input := range []CreatePostInput{
			{Title: "  ", Ingredients: "flour", Preparation: "knead"},
			{Title: "Bread", Ingredients: " ", Preparation: "knead"},
			{Title: "Bread", Ingredients: "flour", Preparation: ""},
		} {
			post, err := svc.CreatePost(ctx, author, input)
			assert.Nil(t, post)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		}

		deps.postRepo.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
	})
}

func TestUpdatePostOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("A stranger may not edit", func(t *testing.T) {
		svc, deps := newTestPostService()
		stranger := writerUser()
		post := &models.Post{ID: uuid.New(), UserID: uuid.New(), Title: "Bread"}

		deps.postRepo.On("GetPostByID", ctx, post.ID).Return(post, nil).Once()

		updated, err := svc.UpdatePost(ctx, stranger, post.ID, UpdatePostInput{})
		assert.Nil(t, updated)
		assert.ErrorIs(t, err, models.ErrForbidden)

		deps.postRepo.AssertNotCalled(t, "UpdatePost", mock.Anything, mock.Anything)
	})

	t.Run("An administrator may edit any post", func(t *testing.T) {
		svc, deps := newTestPostService()
		admin := adminUser()
		post := &models.Post{
			ID: uuid.New(), UserID: uuid.New(),
			Title: "Bread", Ingredients: "flour", Preparation: "knead",
		}
		newTitle := "Sourdough"

		deps.postRepo.On("GetPostByID", ctx, post.ID).Return(post, nil).Once()
		deps.postRepo.On("UpdatePost", ctx, mock.MatchedBy(func(p *models.Post) bool {
			return p.Title == "Sourdough"
		})).Return(nil).Once()

		updated, err := svc.UpdatePost(ctx, admin, post.ID, UpdatePostInput{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, "Sourdough", updated.Title)
	})

	t.Run("The author may delete", func(t *testing.T) {
		svc, deps := newTestPostService()
		author := writerUser()
		post := &models.Post{ID: uuid.New(), UserID: author.ID}

		deps.postRepo.On("GetPostByID", ctx, post.ID).Return(post, nil).Once()
		deps.postRepo.On("DeletePost", ctx, post.ID).Return(nil).Once()

		err := svc.DeletePost(ctx, author, post.ID)
		require.NoError(t, err)
	})
}

func TestFavorite(t *testing.T) {
	ctx := context.Background()

	t.Run("Duplicate favorite surfaces the sentinel", func(t *testing.T) {
		svc, deps := newTestPostService()
		userID, postID := uuid.New(), uuid.New()

		deps.favoriteRepo.On("AddFavorite", ctx, userID, postID).
			Return(models.ErrAlreadyFavorited).Once()

		err := svc.Favorite(ctx, userID, postID)
		assert.ErrorIs(t, err, models.ErrAlreadyFavorited)
	})

	t.Run("Unfavoriting an absent favorite surfaces the sentinel", func(t *testing.T) {
		svc, deps := newTestPostService()
		userID, postID := uuid.New(), uuid.New()

		deps.favoriteRepo.On("RemoveFavorite", ctx, userID, postID).
			Return(models.ErrFavoriteNotFound).Once()

		err := svc.Unfavorite(ctx, userID, postID)
		assert.ErrorIs(t, err, models.ErrFavoriteNotFound)
	})
}

func TestPostCountsAggregation(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestPostService()
	postID := uuid.New()

	deps.commentRepo.On("CountCommentsByPost", ctx, postID).Return(int64(4), nil).Once()
	deps.favoriteRepo.On("CountFavorites", ctx, postID).Return(int64(9), nil).Once()

	counts, err := svc.PostCounts(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, models.PostCounts{Comments: 4, Favorites: 9}, counts)
}
