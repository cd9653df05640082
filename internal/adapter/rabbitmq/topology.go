package rabbitmq

import (
	"fmt"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

// QueueName returns the durable queue bound to a command kind,
// e.g. "post.create.q".
func QueueName(kind domain.CommandKind) string {
	return kind.Event() + ".q"
}

// DeclareTopology declares the durable direct exchange and one durable queue
// per command kind, bound 1:1 to its routing key. Both producer and worker
// call this on startup; declaration is idempotent.
func (c *Client) DeclareTopology(exchange string) error {
	ch, err := c.Channel()
	if err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	kinds := []domain.CommandKind{domain.CommandCreate, domain.CommandUpdate, domain.CommandDelete}
	for _, kind := range kinds {
		queue := QueueName(kind)
		if _, err := ch.QueueDeclare(
			queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, kind.Event(), exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}
