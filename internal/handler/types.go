package handler

import "regexp"

// --- Request Structs ---

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type requestPasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type changeEmailRequest struct {
	NewEmail string `json:"new_email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Username  *string `json:"username"`
	Location  *string `json:"location"`
	AboutMe   *string `json:"about_me"`
	ImageFile *string `json:"image_file"`
}

type createPostRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	PostImage    string `json:"post_image"`
	Portions     int    `json:"portions"`
	PrepTime     int    `json:"prep_time"`
	CookTime     int    `json:"cook_time"`
	TypeCategory string `json:"type_category"`
	Ingredients  string `json:"ingredients" binding:"required"`
	Preparation  string `json:"preparation" binding:"required"`
}

type updatePostRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	PostImage    *string `json:"post_image"`
	Portions     *int    `json:"portions"`
	PrepTime     *int    `json:"prep_time"`
	CookTime     *int    `json:"cook_time"`
	TypeCategory *string `json:"type_category"`
	Ingredients  *string `json:"ingredients"`
	Preparation  *string `json:"preparation"`
}

type createCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type updateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type moderateCommentRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

type setUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// --- Validation Constants ---

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	minPasswordLength = 8
	maxPasswordLength = 100
	maxTitleLength    = 100
	maxBodyLength     = 10000
)

// usernameRegex restricts usernames to letters, digits, underscore and dash.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
