package handler

import (
	"net/http"

	"recipe-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListAllComments handles GET /admin/comments, the moderation dashboard
// listing. Disabled comments are included.
func (h *Handler) ListAllComments(c *gin.Context) {
	params := parsePageParams(c, h.cfg.CommentsPerPage)

	comments, total, err := h.commentService.ListAllComments(c.Request.Context(), params.limit(), params.offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items := make([]models.CommentJSON, 0, len(comments))
	for i := range comments {
		items = append(items, models.ConvertCommentJSON(&comments[i]))
	}

	c.JSON(http.StatusOK, pageEnvelope(models.APIBasePath+"/admin/comments", "comments", items, params, total))
}

// ModerateComment handles PATCH /admin/comments/:id, toggling the disabled
// flag.
func (h *Handler) ModerateComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req moderateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "disabled is required")
		return
	}

	if err := h.commentService.SetDisabled(c.Request.Context(), id, *req.Disabled); err != nil {
		handleServiceError(c, err)
		return
	}

	comment, err := h.commentService.GetComment(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConvertCommentJSON(comment))
}

// SetUserRole handles PUT /admin/users/:id/role.
func (h *Handler) SetUserRole(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req setUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "role is required")
		return
	}
	switch req.Role {
	case models.RoleNameUser, models.RoleNameModerator, models.RoleNameAdministrator:
	default:
		respondValidationError(c, "role must be one of User, Moderator or Administrator")
		return
	}

	if err := h.userService.SetUserRole(c.Request.Context(), id, req.Role); err != nil {
		handleServiceError(c, err)
		return
	}

	principal := principalFromContext(c)
	zap.L().Info("User role changed",
		zap.String("userID", id.String()),
		zap.String("role", req.Role),
		zap.String("actorID", principal.UserID().String()))
	c.JSON(http.StatusOK, gin.H{"message": "Role updated."})
}

// AdminDeleteUser handles DELETE /admin/users/:id.
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	principal := principalFromContext(c)
	if id == principal.UserID() {
		respondValidationError(c, "use DELETE /users/me to delete your own account")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	zap.L().Info("User deleted by administrator",
		zap.String("userID", id.String()),
		zap.String("actorID", principal.UserID().String()))
	c.Status(http.StatusNoContent)
}
