package handler

import (
	"strings"

	"recipe-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxPrincipalKey  = "principal"
	ctxAccessUUIDKey = "access_uuid"
)

// AuthMiddleware verifies the bearer token, loads the backing user and
// stores an authenticated Principal in the context.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			tokenVerificationsTotal.WithLabelValues("access", "failure").Inc()
			handleServiceError(c, models.ErrUnauthorized)
			return
		}

		claims, err := h.authService.VerifyAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			zap.L().Warn("Access token verification failed", zap.Error(err))
			tokenVerificationsTotal.WithLabelValues("access", "failure").Inc()
			handleServiceError(c, err)
			return
		}

		user, err := h.userService.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			// Valid token but the account is gone: treat as invalid token.
			zap.L().Warn("User from valid token not found", zap.String("userID", claims.UserID.String()), zap.Error(err))
			tokenVerificationsTotal.WithLabelValues("access", "failure").Inc()
			handleServiceError(c, models.ErrTokenInvalid)
			return
		}

		tokenVerificationsTotal.WithLabelValues("access", "success").Inc()
		c.Set(ctxPrincipalKey, models.Principal(models.NewAuthenticatedPrincipal(user)))
		c.Set(ctxAccessUUIDKey, claims.ID)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves a Principal when a bearer token is
// present and falls back to the anonymous principal otherwise. A provided
// but invalid token is still an error.
func (h *Handler) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Set(ctxPrincipalKey, models.Principal(models.AnonymousPrincipal{}))
			c.Next()
			return
		}
		h.AuthMiddleware()(c)
	}
}

// RequireConfirmed rejects principals whose account is not confirmed yet.
// Must run after AuthMiddleware.
func (h *Handler) RequireConfirmed() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := principalFromContext(c)
		user := principal.User()
		if user == nil {
			handleServiceError(c, models.ErrUnauthorized)
			return
		}
		if !user.Confirmed {
			handleServiceError(c, models.ErrNotConfirmed)
			return
		}
		c.Next()
	}
}

// RequirePermission rejects principals lacking the permission flag.
// Must run after AuthMiddleware.
func (h *Handler) RequirePermission(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := principalFromContext(c)
		if !principal.Can(perm) {
			zap.L().Warn("Permission denied",
				zap.String("userID", principal.UserID().String()),
				zap.Int("permission", int(perm)))
			handleServiceError(c, models.ErrForbidden)
			return
		}
		c.Next()
	}
}

// principalFromContext returns the request principal, anonymous when unset.
func principalFromContext(c *gin.Context) models.Principal {
	if v, ok := c.Get(ctxPrincipalKey); ok {
		if p, ok := v.(models.Principal); ok {
			return p
		}
	}
	return models.AnonymousPrincipal{}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}
