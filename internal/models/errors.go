package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound = errors.New("resource not found")

	// User & Authentication Errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this username already exists")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotConfirmed       = errors.New("account is not confirmed")
	ErrAlreadyConfirmed   = errors.New("account is already confirmed")

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenNotFound  = errors.New("token not found in storage")
	ErrTokenConsumed  = errors.New("token has already been used")

	// Follow / Favorite Errors
	ErrSelfFollow       = errors.New("users cannot follow themselves")
	ErrAlreadyFavorited = errors.New("post is already favorited")
	ErrFavoriteNotFound = errors.New("favorite not found")

	// Resource Errors
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrRoleNotFound    = errors.New("role not found")

	// General Request/Server Errors
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidInput = errors.New("invalid input data")
)
