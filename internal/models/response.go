package models

// Machine-readable error codes returned alongside HTTP statuses.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeWrongCredentials = "WRONG_CREDENTIALS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotConfirmed     = "ACCOUNT_NOT_CONFIRMED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeDuplicateUser    = "DUPLICATE_USERNAME"
	ErrCodeDuplicateEmail   = "DUPLICATE_EMAIL"
	ErrCodeDuplicate        = "DUPLICATE"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse is the standard JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
