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

// Compile-time check to ensure commentServiceImpl implements CommentService
var _ CommentService = (*commentServiceImpl)(nil)

type commentServiceImpl struct {
	commentRepo interfaces.CommentRepository
	postRepo    interfaces.PostRepository
	renderer    *render.Renderer
	logger      *zap.Logger
}

// NewCommentService creates a new instance of commentServiceImpl.
func NewCommentService(
	commentRepo interfaces.CommentRepository,
	postRepo interfaces.PostRepository,
	renderer *render.Renderer,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		renderer:    renderer,
		logger:      logger.Named("CommentService"),
	}
}

// CreateComment renders the body and attaches the comment to the post.
func (s *commentServiceImpl) CreateComment(ctx context.Context, author *models.User, postID uuid.UUID, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.ErrInvalidInput
	}

	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	bodyHTML, err := s.renderer.Markdown(body)
	if err != nil {
		return nil, fmt.Errorf("failed to render comment body: %w", err)
	}

	comment := &models.Comment{
		Body:     body,
		BodyHTML: bodyHTML,
		UserID:   author.ID,
		PostID:   postID,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info("Comment created", zap.String("commentID", comment.ID.String()), zap.String("postID", postID.String()))
	return comment, nil
}

func (s *commentServiceImpl) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.commentRepo.GetCommentByID(ctx, id)
}

// UpdateComment replaces the body after an ownership check and re-renders it.
func (s *commentServiceImpl) UpdateComment(ctx context.Context, actor *models.User, commentID uuid.UUID, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.ErrInvalidInput
	}

	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !canTouchComment(actor, comment) {
		s.logger.Warn("Unauthorized comment update attempt",
			zap.String("commentID", commentID.String()), zap.String("actorID", actor.ID.String()))
		return nil, models.ErrForbidden
	}

	comment.Body = body
	if comment.BodyHTML, err = s.renderer.Markdown(body); err != nil {
		return nil, fmt.Errorf("failed to render comment body: %w", err)
	}

	if err := s.commentRepo.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info("Comment updated", zap.String("commentID", commentID.String()), zap.String("actorID", actor.ID.String()))
	return comment, nil
}

// DeleteComment removes the comment after an ownership check.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, actor *models.User, commentID uuid.UUID) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !canTouchComment(actor, comment) {
		s.logger.Warn("Unauthorized comment delete attempt",
			zap.String("commentID", commentID.String()), zap.String("actorID", actor.ID.String()))
		return models.ErrForbidden
	}
	if err := s.commentRepo.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	s.logger.Info("Comment deleted", zap.String("commentID", commentID.String()), zap.String("actorID", actor.ID.String()))
	return nil
}

// ListCommentsByPost shows disabled comments only to moderators.
func (s *commentServiceImpl) ListCommentsByPost(ctx context.Context, principal models.Principal, postID uuid.UUID, limit, offset int) ([]models.Comment, int64, error) {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		return nil, 0, err
	}
	includeDisabled := principal.Can(models.PermissionModerate)
	return s.commentRepo.ListCommentsByPost(ctx, postID, includeDisabled, limit, offset)
}

func (s *commentServiceImpl) ListAllComments(ctx context.Context, limit, offset int) ([]models.Comment, int64, error) {
	return s.commentRepo.ListComments(ctx, limit, offset)
}

// SetDisabled hides or restores a comment.
func (s *commentServiceImpl) SetDisabled(ctx context.Context, commentID uuid.UUID, disabled bool) error {
	if err := s.commentRepo.SetDisabled(ctx, commentID, disabled); err != nil {
		return err
	}
	s.logger.Info("Comment moderation flag set", zap.String("commentID", commentID.String()), zap.Bool("disabled", disabled))
	return nil
}

// canTouchComment allows the author, moderators and administrators.
func canTouchComment(actor *models.User, comment *models.Comment) bool {
	return actor.ID == comment.UserID || actor.Can(models.PermissionModerate)
}
