package handler

import (
	"fmt"
	"net/http"

	"recipe-server/internal/models"

	"github.com/gin-gonic/gin"
)

// ListPostComments handles GET /posts/:id/comments. Disabled comments are
// only visible to moderators.
func (h *Handler) ListPostComments(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	params := parsePageParams(c, h.cfg.CommentsPerPage)
	principal := principalFromContext(c)

	comments, total, err := h.commentService.ListCommentsByPost(c.Request.Context(), principal, id, params.limit(), params.offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items := make([]models.CommentJSON, 0, len(comments))
	for i := range comments {
		items = append(items, models.ConvertCommentJSON(&comments[i]))
	}

	path := fmt.Sprintf("%s/posts/%s/comments", models.APIBasePath, id)
	c.JSON(http.StatusOK, pageEnvelope(path, "comments", items, params, total))
}

// CreateComment handles POST /posts/:id/comments.
func (h *Handler) CreateComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "body is required")
		return
	}
	if len(req.Body) > maxBodyLength {
		respondValidationError(c, fmt.Sprintf("body must be at most %d characters", maxBodyLength))
		return
	}

	principal := principalFromContext(c)
	comment, err := h.commentService.CreateComment(c.Request.Context(), principal.User(), id, req.Body)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	commentsCreatedTotal.Inc()
	c.Header("Location", fmt.Sprintf("%s/comments/%s", models.APIBasePath, comment.ID))
	c.JSON(http.StatusCreated, models.ConvertCommentJSON(comment))
}

// GetComment handles GET /comments/:id. A disabled comment is returned with
// its body blanked unless the requester may moderate.
func (h *Handler) GetComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	item := models.ConvertCommentJSON(comment)
	principal := principalFromContext(c)
	if comment.Disabled && !principal.Can(models.PermissionModerate) {
		item.Body = ""
		item.BodyHTML = ""
	}
	c.JSON(http.StatusOK, item)
}

// UpdateComment handles PATCH /comments/:id. Only the author or a moderator
// may edit.
func (h *Handler) UpdateComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "body is required")
		return
	}
	if len(req.Body) > maxBodyLength {
		respondValidationError(c, fmt.Sprintf("body must be at most %d characters", maxBodyLength))
		return
	}

	principal := principalFromContext(c)
	comment, err := h.commentService.UpdateComment(c.Request.Context(), principal.User(), id, req.Body)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConvertCommentJSON(comment))
}

// DeleteComment handles DELETE /comments/:id.
func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	principal := principalFromContext(c)
	if err := h.commentService.DeleteComment(c.Request.Context(), principal.User(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
