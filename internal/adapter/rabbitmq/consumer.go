package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
)

// Handler processes one delivery. A nil return acknowledges the message; an
// error leaves it unacknowledged and requeued, so the broker redelivers it
// (at-least-once).
type Handler func(ctx context.Context, body []byte) error

// Consumer runs a manual-ack consume loop over one queue.
type Consumer struct {
	client *Client
	log    *slog.Logger
}

// NewConsumer creates a consumer.
func NewConsumer(client *Client, log *slog.Logger) *Consumer {
	return &Consumer{client: client, log: log.With("component", "consumer")}
}

// Run consumes queue until ctx is cancelled or the delivery channel closes.
// Prefetch is 1: deliveries are handled one at a time, in broker order, and
// acknowledged only after the handler succeeds.
func (c *Consumer) Run(ctx context.Context, queue string, handler Handler) error {
	ch, err := c.client.Channel()
	if err != nil {
		return err
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos on %s: %w", queue, err)
	}

	deliveries, err := ch.Consume(
		queue,
		"",    // consumer tag (server-generated)
		false, // auto-ack: acknowledgement is explicit, after the handler
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	c.log.InfoContext(ctx, "consuming", slog.String("queue", queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for %s", queue)
			}

			if err := handler(ctx, d.Body); err != nil {
				c.log.ErrorContext(ctx, "handler failed, requeueing",
					slog.String("queue", queue),
					slog.String("error", err.Error()),
				)
				if nackErr := d.Nack(false, true); nackErr != nil {
					return fmt.Errorf("nack on %s: %w", queue, nackErr)
				}
				continue
			}

			if err := d.Ack(false); err != nil {
				return fmt.Errorf("ack on %s: %w", queue, err)
			}
		}
	}
}
