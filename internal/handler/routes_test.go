package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-server/internal/config"
	"recipe-server/internal/models"
	"recipe-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubAuthService struct{ service.AuthService }

func (stubAuthService) RequestPasswordReset(ctx context.Context, email string) error { return nil }

type stubPostService struct{ service.PostService }

func (stubPostService) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, int64, error) {
	return nil, 0, nil
}

func newTestRouter(rateLimit gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(stubAuthService{}, nil, stubPostService{}, nil,
		&config.Config{PostsPerPage: 12}, zap.NewNop())
	router := gin.New()
	h.RegisterRoutes(router, rateLimit)
	return router
}

func TestRateLimiterScope(t *testing.T) {
	// A limiter stub that always rejects shows exactly which routes sit
	// behind it.
	exhausted := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
	}
	router := newTestRouter(exhausted)

	t.Run("Auth endpoints are limited", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"alice@example.com","password":"password123"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("Public browsing is not limited", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Health probe is not limited", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequestPasswordResetAccepted(t *testing.T) {
	passthrough := func(c *gin.Context) { c.Next() }
	router := newTestRouter(passthrough)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/reset-password",
		strings.NewReader(`{"email":"alice@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "reset email")
}
