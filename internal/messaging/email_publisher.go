// Package messaging moves email work onto RabbitMQ so account workflows
// never block on SMTP.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EmailQueueName is the durable queue shared by publisher and consumer.
const EmailQueueName = "recblog_emails"

// Compile-time check to ensure rabbitEmailPublisher implements EmailPublisher
var _ interfaces.EmailPublisher = (*rabbitEmailPublisher)(nil)

type rabbitEmailPublisher struct {
	conn      *amqp091.Connection
	logger    *zap.Logger
	queueName string
}

// NewRabbitEmailPublisher creates a publisher bound to the email queue.
func NewRabbitEmailPublisher(conn *amqp091.Connection, logger *zap.Logger) (interfaces.EmailPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection is nil")
	}

	publisher := &rabbitEmailPublisher{
		conn:      conn,
		logger:    logger.Named("EmailPublisher").With(zap.String("queue", EmailQueueName)),
		queueName: EmailQueueName,
	}

	if err := publisher.verifyQueue(); err != nil {
		return nil, fmt.Errorf("failed to verify queue %s on init: %w", EmailQueueName, err)
	}

	publisher.logger.Info("EmailPublisher initialized")
	return publisher, nil
}

// verifyQueue declares the queue at startup so publish failures surface early.
func (p *rabbitEmailPublisher) verifyQueue() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,  // durable (must match the consumer)
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", p.queueName, err)
	}
	return nil
}

// PublishEmail serializes the message and publishes it to the email queue.
func (p *rabbitEmailPublisher) PublishEmail(ctx context.Context, msg *models.EmailMessage) error {
	log := p.logger.With(zap.String("to", msg.To), zap.String("template", msg.Template))

	body, err := json.Marshal(msg)
	if err != nil {
		log.Error("Failed to marshal email message", zap.Error(err))
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		log.Error("Failed to open channel for publishing", zap.Error(err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx,
		"",          // exchange (default)
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		log.Error("Failed to publish email message", zap.Error(err))
		return fmt.Errorf("failed to publish email message: %w", err)
	}

	log.Info("Email message published")
	return nil
}
