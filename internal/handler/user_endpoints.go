package handler

import (
	"fmt"
	"net/http"

	"recipe-server/internal/models"
	"recipe-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// parseIDParam reads the :id path segment as a UUID, answering 400 itself
// when the value does not parse.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidationError(c, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// userProjection builds the UserJSON for target as seen by the requester.
// The email field is only exposed to the user themselves and administrators.
func (h *Handler) userProjection(c *gin.Context, target *models.User) (models.UserJSON, error) {
	principal := principalFromContext(c)
	includeEmail := principal.IsAdministrator() || principal.UserID() == target.ID

	counts, err := h.userService.UserCounts(c.Request.Context(), target.ID)
	if err != nil {
		return models.UserJSON{}, err
	}
	return models.ConvertUserJSON(target, counts, includeEmail), nil
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(c *gin.Context) {
	params := parsePageParams(c, h.cfg.UsersPerPage)

	users, total, err := h.userService.ListUsers(c.Request.Context(), params.limit(), params.offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items := make([]models.UserJSON, 0, len(users))
	for i := range users {
		item, err := h.userProjection(c, &users[i])
		if err != nil {
			handleServiceError(c, err)
			return
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, pageEnvelope(models.APIBasePath+"/users", "users", items, params, total))
}

// GetMe handles GET /users/me.
func (h *Handler) GetMe(c *gin.Context) {
	principal := principalFromContext(c)
	user := principal.User()
	if user == nil {
		handleServiceError(c, models.ErrUnauthorized)
		return
	}

	item, err := h.userProjection(c, user)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateMe handles PATCH /users/me. Absent fields are left untouched.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "request body must be a JSON object")
		return
	}

	if req.Username != nil {
		if len(*req.Username) < minUsernameLength || len(*req.Username) > maxUsernameLength {
			respondValidationError(c, fmt.Sprintf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength))
			return
		}
		if !usernameRegex.MatchString(*req.Username) {
			respondValidationError(c, "username may only contain letters, digits, underscores and dashes")
			return
		}
	}

	principal := principalFromContext(c)
	user, err := h.userService.UpdateProfile(c.Request.Context(), principal.UserID(), service.UpdateProfileInput{
		Username:  req.Username,
		Location:  req.Location,
		AboutMe:   req.AboutMe,
		ImageFile: req.ImageFile,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	item, err := h.userProjection(c, user)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteMe handles DELETE /users/me.
func (h *Handler) DeleteMe(c *gin.Context) {
	principal := principalFromContext(c)
	if err := h.userService.DeleteUser(c.Request.Context(), principal.UserID()); err != nil {
		handleServiceError(c, err)
		return
	}
	zap.L().Info("User deleted their own account", zap.String("userID", principal.UserID().String()))
	c.Status(http.StatusNoContent)
}

// GetUser handles GET /users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	item, err := h.userProjection(c, user)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListUserPosts handles GET /users/:id/posts.
func (h *Handler) ListUserPosts(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	params := parsePageParams(c, h.cfg.PostsPerPage)

	posts, total, err := h.postService.ListPostsByAuthor(c.Request.Context(), id, params.limit(), params.offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items, err := h.postProjections(c, posts)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	path := fmt.Sprintf("%s/users/%s/posts", models.APIBasePath, id)
	c.JSON(http.StatusOK, pageEnvelope(path, "posts", items, params, total))
}

// ListFollowers handles GET /users/:id/followers.
func (h *Handler) ListFollowers(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	params := parsePageParams(c, h.cfg.FollowersPerPage)

	edges, total, err := h.userService.ListFollowers(c.Request.Context(), id, params.limit(), params.offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items := make([]models.FollowJSON, 0, len(edges))
	for _, e := range edges {
		items = append(items, models.FollowJSON{
			UserURL:  fmt.Sprintf("%s/users/%s", models.APIBasePath, e.UserID),
			Username: e.Username,
			Since:    e.CreatedAt,
		})
	}

	path := fmt.Sprintf("%s/users/%s/followers", models.APIBasePath, id)
	c.JSON(http.StatusOK, pageEnvelope(path, "followers", items, params, total))
}

// ListFollowed handles GET /users/:id/followed.
func (h *Handler) ListFollowed(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	params := parsePageParams(c, h.cfg.FollowedPerPage)

	edges, total, err := h.userService.ListFollowed(c.Request.Context(), id, params.limit(), params.offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items := make([]models.FollowJSON, 0, len(edges))
	for _, e := range edges {
		items = append(items, models.FollowJSON{
			UserURL:  fmt.Sprintf("%s/users/%s", models.APIBasePath, e.UserID),
			Username: e.Username,
			Since:    e.CreatedAt,
		})
	}

	path := fmt.Sprintf("%s/users/%s/followed", models.APIBasePath, id)
	c.JSON(http.StatusOK, pageEnvelope(path, "followed", items, params, total))
}

// FollowUser handles POST /users/:id/follow. Following an already followed
// user is a success.
func (h *Handler) FollowUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	principal := principalFromContext(c)
	if err := h.userService.Follow(c.Request.Context(), principal.UserID(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You are now following this user."})
}

// UnfollowUser handles DELETE /users/:id/follow.
func (h *Handler) UnfollowUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	principal := principalFromContext(c)
	if err := h.userService.Unfollow(c.Request.Context(), principal.UserID(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You are no longer following this user."})
}
