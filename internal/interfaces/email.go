package interfaces

import (
	"context"

	"recipe-server/internal/models"
)

// EmailPublisher queues an email for asynchronous delivery. Publish
// failures are logged by callers but never fail the triggering request.
type EmailPublisher interface {
	PublishEmail(ctx context.Context, msg *models.EmailMessage) error
}

// EmailSender delivers a single email. Implemented by the SMTP mailer.
type EmailSender interface {
	Send(ctx context.Context, msg *models.EmailMessage) error
}
