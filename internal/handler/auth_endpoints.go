package handler

import (
	"fmt"
	"net/http"

	"recipe-server/internal/models"

	"github.com/gin-gonic/gin"
)

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "username, email and password are required")
		return
	}

	if len(req.Username) < minUsernameLength || len(req.Username) > maxUsernameLength {
		respondValidationError(c, fmt.Sprintf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength))
		return
	}
	if !usernameRegex.MatchString(req.Username) {
		respondValidationError(c, "username may only contain letters, digits, underscores and dashes")
		return
	}
	if len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength {
		respondValidationError(c, fmt.Sprintf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()
	c.Header("Location", fmt.Sprintf("%s/users/%s", models.APIBasePath, user.ID))
	c.JSON(http.StatusCreated, gin.H{
		"user":    models.ConvertUserJSON(user, models.UserCounts{}, true),
		"message": "A confirmation email has been sent to you by email.",
	})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "email and password are required")
		return
	}

	td, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, td)
}

// Logout handles POST /auth/logout. The refresh token comes in the body;
// the access token is the one the request authenticated with.
func (h *Handler) Logout(c *gin.Context) {
	var req logoutRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	principal := principalFromContext(c)
	accessUUID := c.GetString(ctxAccessUUIDKey)

	if err := h.authService.Logout(c.Request.Context(), principal.UserID(), accessUUID, req.RefreshToken); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Refresh handles POST /auth/refresh.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "refresh_token is required")
		return
	}

	td, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		tokenVerificationsTotal.WithLabelValues("refresh", "failure").Inc()
		handleServiceError(c, err)
		return
	}
	tokenVerificationsTotal.WithLabelValues("refresh", "success").Inc()
	c.JSON(http.StatusOK, td)
}

// ConfirmAccount handles GET /auth/confirm/:token.
func (h *Handler) ConfirmAccount(c *gin.Context) {
	principal := principalFromContext(c)
	if err := h.authService.ConfirmAccount(c.Request.Context(), principal, c.Param("token")); err != nil {
		handleServiceError(c, err)
		return
	}
	confirmationsTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "You have confirmed your account. Thanks!"})
}

// ResendConfirmation handles POST /auth/resend-confirmation.
func (h *Handler) ResendConfirmation(c *gin.Context) {
	principal := principalFromContext(c)
	if err := h.authService.ResendConfirmation(c.Request.Context(), principal.UserID()); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "A new confirmation email has been sent to you by email."})
}

// RequestPasswordReset handles POST /auth/reset-password. Always answers
// 202 so the endpoint cannot be used to probe registered addresses; the
// email itself is dispatched asynchronously.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req requestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "email is required")
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "If that address is registered, a reset email has been sent."})
}

// ResetPassword handles POST /auth/reset-password/:token.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "password is required")
		return
	}
	if len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength {
		respondValidationError(c, fmt.Sprintf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength))
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your password has been updated! You are now able to log in."})
}

// ChangePassword handles POST /auth/change-password.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "old_password and new_password are required")
		return
	}
	if len(req.NewPassword) < minPasswordLength || len(req.NewPassword) > maxPasswordLength {
		respondValidationError(c, fmt.Sprintf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength))
		return
	}

	principal := principalFromContext(c)
	if err := h.authService.ChangePassword(c.Request.Context(), principal.UserID(), req.OldPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your password has been updated. Please log in again."})
}

// RequestEmailChange handles POST /auth/change-email.
func (h *Handler) RequestEmailChange(c *gin.Context) {
	var req changeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "new_email and password are required")
		return
	}

	principal := principalFromContext(c)
	if err := h.authService.RequestEmailChange(c.Request.Context(), principal.UserID(), req.NewEmail, req.Password); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "An email with instructions to confirm your new email address has been sent."})
}

// ConfirmEmailChange handles GET /auth/change-email/:token.
func (h *Handler) ConfirmEmailChange(c *gin.Context) {
	principal := principalFromContext(c)
	if err := h.authService.ConfirmEmailChange(c.Request.Context(), principal, c.Param("token")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your email address has been updated."})
}
