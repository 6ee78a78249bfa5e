package handler

import (
	"fmt"
	"net/http"

	"recipe-server/internal/models"
	"recipe-server/internal/service"

	"github.com/gin-gonic/gin"
)

// postProjection builds the PostJSON for a single post including its counts.
func (h *Handler) postProjection(c *gin.Context, post *models.Post) (models.PostJSON, error) {
	counts, err := h.postService.PostCounts(c.Request.Context(), post.ID)
	if err != nil {
		return models.PostJSON{}, err
	}
	return models.ConvertPostJSON(post, counts), nil
}

// postProjections maps a page of posts to their API projections.
func (h *Handler) postProjections(c *gin.Context, posts []models.Post) ([]models.PostJSON, error) {
	items := make([]models.PostJSON, 0, len(posts))
	for i := range posts {
		item, err := h.postProjection(c, &posts[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ListPosts handles GET /posts.
func (h *Handler) ListPosts(c *gin.Context) {
	params := parsePageParams(c, h.cfg.PostsPerPage)

	posts, total, err := h.postService.ListPosts(c.Request.Context(), params.limit(), params.offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items, err := h.postProjections(c, posts)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(models.APIBasePath+"/posts", "posts", items, params, total))
}

// ListFollowedFeed handles GET /posts/feed, the posts of followed authors.
func (h *Handler) ListFollowedFeed(c *gin.Context) {
	params := parsePageParams(c, h.cfg.PostsPerPage)
	principal := principalFromContext(c)

	posts, total, err := h.postService.ListFollowedPosts(c.Request.Context(), principal.UserID(), params.limit(), params.offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items, err := h.postProjections(c, posts)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(models.APIBasePath+"/posts/feed", "posts", items, params, total))
}

// CreatePost handles POST /posts.
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "title, ingredients and preparation are required")
		return
	}
	if len(req.Title) > maxTitleLength {
		respondValidationError(c, fmt.Sprintf("title must be at most %d characters", maxTitleLength))
		return
	}

	principal := principalFromContext(c)
	post, err := h.postService.CreatePost(c.Request.Context(), principal.User(), service.CreatePostInput{
		Title:        req.Title,
		Description:  req.Description,
		PostImage:    req.PostImage,
		Portions:     req.Portions,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		TypeCategory: req.TypeCategory,
		Ingredients:  req.Ingredients,
		Preparation:  req.Preparation,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	postsCreatedTotal.Inc()
	c.Header("Location", fmt.Sprintf("%s/posts/%s", models.APIBasePath, post.ID))
	c.JSON(http.StatusCreated, models.ConvertPostJSON(post, models.PostCounts{}))
}

// GetPost handles GET /posts/:id.
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	item, err := h.postProjection(c, post)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdatePost handles PUT /posts/:id. Only the author or an administrator
// may edit.
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "request body must be a JSON object")
		return
	}
	if req.Title != nil && len(*req.Title) > maxTitleLength {
		respondValidationError(c, fmt.Sprintf("title must be at most %d characters", maxTitleLength))
		return
	}

	principal := principalFromContext(c)
	post, err := h.postService.UpdatePost(c.Request.Context(), principal.User(), id, service.UpdatePostInput{
		Title:        req.Title,
		Description:  req.Description,
		PostImage:    req.PostImage,
		Portions:     req.Portions,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		TypeCategory: req.TypeCategory,
		Ingredients:  req.Ingredients,
		Preparation:  req.Preparation,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	item, err := h.postProjection(c, post)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeletePost handles DELETE /posts/:id.
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	principal := principalFromContext(c)
	if err := h.postService.DeletePost(c.Request.Context(), principal.User(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FavoritePost handles POST /posts/:id/favorite.
func (h *Handler) FavoritePost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	principal := principalFromContext(c)
	if err := h.postService.Favorite(c.Request.Context(), principal.UserID(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post added to your favorites."})
}

// UnfavoritePost handles DELETE /posts/:id/favorite.
func (h *Handler) UnfavoritePost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	principal := principalFromContext(c)
	if err := h.postService.Unfavorite(c.Request.Context(), principal.UserID(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post removed from your favorites."})
}

// ListFavoriters handles GET /posts/:id/favoriters.
func (h *Handler) ListFavoriters(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	params := parsePageParams(c, h.cfg.FollowersPerPage)

	favorites, total, err := h.postService.ListFavoriters(c.Request.Context(), id, params.limit(), params.offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(favorites))
	for _, f := range favorites {
		items = append(items, gin.H{
			"user_url": fmt.Sprintf("%s/users/%s", models.APIBasePath, f.UserID),
			"liked_at": f.LikedAt,
		})
	}

	path := fmt.Sprintf("%s/posts/%s/favoriters", models.APIBasePath, id)
	c.JSON(http.StatusOK, pageEnvelope(path, "favoriters", items, params, total))
}
