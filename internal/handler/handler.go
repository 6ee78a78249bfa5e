// Package handler wires the HTTP surface of the recipe blog API.
package handler

import (
	"net/http"

	"recipe-server/internal/config"
	"recipe-server/internal/models"
	"recipe-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler carries the services behind the HTTP endpoints.
type Handler struct {
	authService    service.AuthService
	userService    service.UserService
	postService    service.PostService
	commentService service.CommentService
	cfg            *config.Config
	logger         *zap.Logger
}

// NewHandler creates a Handler with all dependencies.
func NewHandler(
	authService service.AuthService,
	userService service.UserService,
	postService service.PostService,
	commentService service.CommentService,
	cfg *config.Config,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		authService:    authService,
		userService:    userService,
		postService:    postService,
		commentService: commentService,
		cfg:            cfg,
		logger:         logger.Named("Handler"),
	}
}

// RegisterRoutes mounts every endpoint under /api/v1. The rate limiter is
// attached to the auth group only so public browsing stays unthrottled.
func (h *Handler) RegisterRoutes(router *gin.Engine, rateLimitMiddleware gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group(models.APIBasePath)

	auth := api.Group("/auth", rateLimitMiddleware)
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.AuthMiddleware(), h.Logout)

		auth.GET("/confirm/:token", h.OptionalAuthMiddleware(), h.ConfirmAccount)
		auth.POST("/resend-confirmation", h.AuthMiddleware(), h.ResendConfirmation)

		auth.POST("/reset-password", h.RequestPasswordReset)
		auth.POST("/reset-password/:token", h.ResetPassword)
		auth.POST("/change-password", h.AuthMiddleware(), h.ChangePassword)

		auth.POST("/change-email", h.AuthMiddleware(), h.RequestEmailChange)
		auth.GET("/change-email/:token", h.OptionalAuthMiddleware(), h.ConfirmEmailChange)
	}

	users := api.Group("/users")
	{
		users.GET("", h.OptionalAuthMiddleware(), h.ListUsers)
		users.GET("/me", h.AuthMiddleware(), h.GetMe)
		users.PATCH("/me", h.AuthMiddleware(), h.UpdateMe)
		users.DELETE("/me", h.AuthMiddleware(), h.DeleteMe)

		users.GET("/:id", h.OptionalAuthMiddleware(), h.GetUser)
		users.GET("/:id/posts", h.ListUserPosts)
		users.GET("/:id/followers", h.ListFollowers)
		users.GET("/:id/followed", h.ListFollowed)

		users.POST("/:id/follow", h.AuthMiddleware(), h.RequireConfirmed(), h.RequirePermission(models.PermissionFollow), h.FollowUser)
		users.DELETE("/:id/follow", h.AuthMiddleware(), h.RequireConfirmed(), h.RequirePermission(models.PermissionFollow), h.UnfollowUser)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", h.ListPosts)
		posts.GET("/feed", h.AuthMiddleware(), h.ListFollowedFeed)
		posts.POST("", h.AuthMiddleware(), h.RequireConfirmed(), h.RequirePermission(models.PermissionWrite), h.CreatePost)

		posts.GET("/:id", h.GetPost)
		posts.PUT("/:id", h.AuthMiddleware(), h.RequireConfirmed(), h.RequirePermission(models.PermissionWrite), h.UpdatePost)
		posts.DELETE("/:id", h.AuthMiddleware(), h.RequireConfirmed(), h.DeletePost)

		posts.POST("/:id/favorite", h.AuthMiddleware(), h.RequireConfirmed(), h.FavoritePost)
		posts.DELETE("/:id/favorite", h.AuthMiddleware(), h.RequireConfirmed(), h.UnfavoritePost)
		posts.GET("/:id/favoriters", h.ListFavoriters)

		posts.GET("/:id/comments", h.OptionalAuthMiddleware(), h.ListPostComments)
		posts.POST("/:id/comments", h.AuthMiddleware(), h.RequireConfirmed(), h.RequirePermission(models.PermissionComment), h.CreateComment)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/:id", h.OptionalAuthMiddleware(), h.GetComment)
		comments.PATCH("/:id", h.AuthMiddleware(), h.RequireConfirmed(), h.UpdateComment)
		comments.DELETE("/:id", h.AuthMiddleware(), h.RequireConfirmed(), h.DeleteComment)
	}

	admin := api.Group("/admin", h.AuthMiddleware())
	{
		admin.GET("/comments", h.RequirePermission(models.PermissionModerate), h.ListAllComments)
		admin.PATCH("/comments/:id", h.RequirePermission(models.PermissionModerate), h.ModerateComment)

		admin.PUT("/users/:id/role", h.RequirePermission(models.PermissionAdmin), h.SetUserRole)
		admin.DELETE("/users/:id", h.RequirePermission(models.PermissionAdmin), h.AdminDeleteUser)
	}
}
