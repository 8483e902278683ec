// Package mailer is the queue consumer behind the amqp email provider: it
// takes messages off RabbitMQ and delivers them over SMTP.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/email"
	amqp "github.com/rabbitmq/amqp091-go"
)

const prefetch = 16

// Worker delivers queued messages. Nothing is retried: malformed messages are
// rejected and failed deliveries nacked, both without requeue.
type Worker struct {
	sender email.Sender
	logger logging.Logger
}

func NewWorker(s email.Sender, l logging.Logger) *Worker {
	return &Worker{sender: s, logger: l.With("module", "mailer")}
}

// Handle processes one delivery and acknowledges it.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	var msg email.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil || msg.To == "" {
		w.logger.Warn(ctx, "rejecting malformed message", "delivery_tag", d.DeliveryTag, "error", err)
		_ = d.Reject(false)
		return
	}

	log := w.logger.With("email", logging.RedactEmail(msg.To))
	if err := w.sender.Send(ctx, msg); err != nil {
		log.Error(ctx, "failed to deliver message", "error", err)
		_ = d.Nack(false, false)
		return
	}

	log.Debug(ctx, "message delivered")
	_ = d.Ack(false)
}

// Consume handles deliveries one at a time until ctx is done or the channel
// closes.
func (w *Worker) Consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				w.logger.Warn(ctx, "delivery channel closed")
				return
			}
			w.Handle(ctx, d)
		}
	}
}

// Run dials url, declares queue and consumes it until ctx is done.
func (w *Worker) Run(ctx context.Context, url, queue string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("amqp qos: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp declare %s: %w", queue, err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume: %w", err)
	}

	w.logger.Info(ctx, "mailer listening", "queue", queue)
	w.Consume(ctx, deliveries)
	return nil
}
