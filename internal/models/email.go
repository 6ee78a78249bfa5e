package models

// Email template identifiers used by the mail worker.
const (
	EmailTemplateConfirm       = "confirm"
	EmailTemplateResetPassword = "reset_password"
	EmailTemplateChangeEmail   = "change_email"
)

// EmailMessage is the payload queued for the mail worker. The API never
// sends mail inline; it publishes one of these and moves on.
type EmailMessage struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
	Username string `json:"username"`

	// Link is the full workflow URL including the signed token.
	Link string `json:"link"`
}
