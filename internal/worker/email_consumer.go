// Package worker runs the background consumers of the service.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/messaging"
	"recipe-server/internal/models"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EmailConsumer listens on the email queue and hands messages to the sender.
type EmailConsumer struct {
	conn        *amqp091.Connection
	ch          *amqp091.Channel
	sender      interfaces.EmailSender
	logger      *zap.Logger
	queueName   string
	consumerTag string
	done        chan error
}

// NewEmailConsumer creates the consumer and declares the queue.
func NewEmailConsumer(conn *amqp091.Connection, sender interfaces.EmailSender, logger *zap.Logger) (*EmailConsumer, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection is nil")
	}
	if sender == nil {
		return nil, fmt.Errorf("EmailSender is nil")
	}

	consumerTag := fmt.Sprintf("email_consumer_%d", time.Now().UnixNano())
	queueName := messaging.EmailQueueName

	consumer := &EmailConsumer{
		conn:        conn,
		sender:      sender,
		logger:      logger.Named("EmailConsumer").With(zap.String("consumerTag", consumerTag), zap.String("queue", queueName)),
		queueName:   queueName,
		consumerTag: consumerTag,
		done:        make(chan error),
	}

	if err := consumer.setupChannelAndQueue(); err != nil {
		return nil, fmt.Errorf("failed to setup channel and queue: %w", err)
	}

	consumer.logger.Info("EmailConsumer initialized")
	return consumer, nil
}

func (c *EmailConsumer) setupChannelAndQueue() error {
	var err error
	c.ch, err = c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = c.ch.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = c.ch.Close()
		return fmt.Errorf("failed to declare queue '%s': %w", c.queueName, err)
	}

	// One message at a time; SMTP delivery is slow and retries are cheap.
	if err = c.ch.Qos(1, 0, false); err != nil {
		_ = c.ch.Close()
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	return nil
}

// StartConsuming blocks until the consumer is stopped or the channel fails.
func (c *EmailConsumer) StartConsuming() error {
	if c.ch == nil {
		return fmt.Errorf("channel is not initialized")
	}
	c.logger.Info("Starting to consume email queue...")

	deliveries, err := c.ch.Consume(
		c.queueName,
		c.consumerTag,
		false, // auto-ack off, we ack manually
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		c.logger.Error("Failed to register consumer", zap.Error(err))
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	go c.handleDeliveries(deliveries)

	go func() {
		notifyClose := make(chan *amqp091.Error)
		c.ch.NotifyClose(notifyClose)
		select {
		case err := <-notifyClose:
			if err != nil {
				c.logger.Error("RabbitMQ channel closed unexpectedly", zap.Error(err))
				c.done <- err
			} else {
				c.logger.Info("RabbitMQ channel closed gracefully.")
				c.done <- nil
			}
		case <-c.done:
			c.logger.Info("Received stop signal while waiting for channel close.")
		}
	}()

	c.logger.Info("Consumer running and waiting for messages", zap.String("tag", c.consumerTag))
	return <-c.done
}

func (c *EmailConsumer) handleDeliveries(deliveries <-chan amqp091.Delivery) {
	for d := range deliveries {
		log := c.logger.With(zap.Uint64("deliveryTag", d.DeliveryTag))

		var msg models.EmailMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			log.Warn("Received malformed email message, rejecting (Nack)", zap.Error(err))
			if nackErr := d.Nack(false, false); nackErr != nil { // do not requeue garbage
				log.Error("Failed to Nack malformed message", zap.Error(nackErr))
			}
			continue
		}

		log = log.With(zap.String("to", msg.To), zap.String("template", msg.Template))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := c.sender.Send(ctx, &msg)
		cancel()

		if err != nil {
			log.Error("Failed to deliver email, message will be redelivered (Nack, requeue)", zap.Error(err))
			if nackErr := d.Nack(false, true); nackErr != nil {
				log.Error("Failed to Nack message after send error", zap.Error(nackErr))
			}
			time.Sleep(1 * time.Second)
			continue
		}

		log.Info("Email processed, acknowledging (Ack)")
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("Failed to Ack message", zap.Error(ackErr))
		}
	}
	c.logger.Info("Deliveries channel closed, message handling finished.")
	select {
	case c.done <- nil:
	default:
	}
}

// Stop cancels the subscription and closes the channel.
func (c *EmailConsumer) Stop() error {
	if c.ch == nil {
		c.logger.Warn("Stop called on consumer without a channel")
		return nil
	}
	c.logger.Info("Stopping EmailConsumer...")

	if err := c.ch.Cancel(c.consumerTag, false); err != nil {
		c.logger.Error("Failed to cancel consumer", zap.String("tag", c.consumerTag), zap.Error(err))
	}

	if err := c.ch.Close(); err != nil {
		c.logger.Error("Failed to close RabbitMQ channel", zap.Error(err))
	}

	select {
	case c.done <- nil:
	default:
	}

	c.logger.Info("EmailConsumer stopped.")
	return nil
}
