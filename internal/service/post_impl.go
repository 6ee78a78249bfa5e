package service

import (
	"context"
	"fmt"
	"strings"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"
	"recipe-server/internal/render"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check to ensure postServiceImpl implements PostService
var _ PostService = (*postServiceImpl)(nil)

type postServiceImpl struct {
	postRepo     interfaces.PostRepository
	commentRepo  interfaces.CommentRepository
	favoriteRepo interfaces.FavoriteRepository
	renderer     *render.Renderer
	logger       *zap.Logger
}

// NewPostService creates a new instance of postServiceImpl.
func NewPostService(
	postRepo interfaces.PostRepository,
	commentRepo interfaces.CommentRepository,
	favoriteRepo interfaces.FavoriteRepository,
	renderer *render.Renderer,
	logger *zap.Logger,
) PostService {
	return &postServiceImpl{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		favoriteRepo: favoriteRepo,
		renderer:     renderer,
		logger:       logger.Named("PostService"),
	}
}

// CreatePost validates the input, renders the markdown fields and persists
// the post.
func (s *postServiceImpl) CreatePost(ctx context.Context, author *models.User, input CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Ingredients) == "" || strings.TrimSpace(input.Preparation) == "" {
		return nil, models.ErrInvalidInput
	}

	post := &models.Post{
		Title:        title,
		Description:  input.Description,
		PostImage:    input.PostImage,
		Portions:     input.Portions,
		PrepTime:     input.PrepTime,
		CookTime:     input.CookTime,
		TypeCategory: input.TypeCategory,
		Ingredients:  input.Ingredients,
		Preparation:  input.Preparation,
		UserID:       author.ID,
	}
	if post.PostImage == "" {
		post.PostImage = "default_recipe.jpg"
	}

	if err := s.renderMarkdown(post); err != nil {
		return nil, err
	}

	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info("Post created", zap.String("postID", post.ID.String()), zap.String("authorID", author.ID.String()))
	return post, nil
}

func (s *postServiceImpl) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.postRepo.GetPostByID(ctx, id)
}

// UpdatePost applies the provided fields after an ownership check and
// re-renders the markdown.
func (s *postServiceImpl) UpdatePost(ctx context.Context, actor *models.User, postID uuid.UUID, input UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !canTouchPost(actor, post) {
		s.logger.Warn("Unauthorized post update attempt",
			zap.String("postID", postID.String()), zap.String("actorID", actor.ID.String()))
		return nil, models.ErrForbidden
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, models.ErrInvalidInput
		}
		post.Title = title
	}
	if input.Description != nil {
		post.Description = *input.Description
	}
	if input.PostImage != nil {
		post.PostImage = *input.PostImage
	}
	if input.Portions != nil {
		post.Portions = *input.Portions
	}
	if input.PrepTime != nil {
		post.PrepTime = *input.PrepTime
	}
	if input.CookTime != nil {
		post.CookTime = *input.CookTime
	}
	if input.TypeCategory != nil {
		post.TypeCategory = *input.TypeCategory
	}
	if input.Ingredients != nil {
		if strings.TrimSpace(*input.Ingredients) == "" {
			return nil, models.ErrInvalidInput
		}
		post.Ingredients = *input.Ingredients
	}
	if input.Preparation != nil {
		if strings.TrimSpace(*input.Preparation) == "" {
			return nil, models.ErrInvalidInput
		}
		post.Preparation = *input.Preparation
	}

	if err := s.renderMarkdown(post); err != nil {
		return nil, err
	}

	if err := s.postRepo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info("Post updated", zap.String("postID", postID.String()), zap.String("actorID", actor.ID.String()))
	return post, nil
}

// DeletePost removes the post after an ownership check.
func (s *postServiceImpl) DeletePost(ctx context.Context, actor *models.User, postID uuid.UUID) error {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if !canTouchPost(actor, post) {
		s.logger.Warn("Unauthorized post delete attempt",
			zap.String("postID", postID.String()), zap.String("actorID", actor.ID.String()))
		return models.ErrForbidden
	}
	if err := s.postRepo.DeletePost(ctx, postID); err != nil {
		return err
	}
	s.logger.Info("Post deleted", zap.String("postID", postID.String()), zap.String("actorID", actor.ID.String()))
	return nil
}

func (s *postServiceImpl) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	return s.postRepo.ListPosts(ctx, limit, offset)
}

func (s *postServiceImpl) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Post, int64, error) {
	return s.postRepo.ListPostsByAuthor(ctx, authorID, limit, offset)
}

func (s *postServiceImpl) ListFollowedPosts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, int64, error) {
	return s.postRepo.ListFollowedPosts(ctx, userID, limit, offset)
}

// PostCounts gathers the comment and favorite counts shown on a post.
func (s *postServiceImpl) PostCounts(ctx context.Context, postID uuid.UUID) (models.PostCounts, error) {
	var counts models.PostCounts
	var err error

	if counts.Comments, err = s.commentRepo.CountCommentsByPost(ctx, postID); err != nil {
		return counts, err
	}
	if counts.Favorites, err = s.favoriteRepo.CountFavorites(ctx, postID); err != nil {
		return counts, err
	}
	return counts, nil
}

func (s *postServiceImpl) Favorite(ctx context.Context, userID, postID uuid.UUID) error {
	return s.favoriteRepo.AddFavorite(ctx, userID, postID)
}

func (s *postServiceImpl) Unfavorite(ctx context.Context, userID, postID uuid.UUID) error {
	return s.favoriteRepo.RemoveFavorite(ctx, userID, postID)
}

func (s *postServiceImpl) IsFavorited(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	return s.favoriteRepo.IsFavorited(ctx, userID, postID)
}

func (s *postServiceImpl) ListFavoriters(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.FavoritePost, int64, error) {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		return nil, 0, err
	}
	return s.favoriteRepo.ListFavoriters(ctx, postID, limit, offset)
}

func (s *postServiceImpl) renderMarkdown(post *models.Post) error {
	var err error
	if post.IngredientsHTML, err = s.renderer.Markdown(post.Ingredients); err != nil {
		return fmt.Errorf("failed to render ingredients: %w", err)
	}
	if post.PreparationHTML, err = s.renderer.Markdown(post.Preparation); err != nil {
		return fmt.Errorf("failed to render preparation: %w", err)
	}
	return nil
}

// canTouchPost allows the author and administrators.
func canTouchPost(actor *models.User, post *models.Post) bool {
	return actor.ID == post.UserID || actor.Can(models.PermissionAdmin)
}
