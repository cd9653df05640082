package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes durable messages to the command exchange. A publish
// failure is surfaced to the caller; commands are never silently dropped.
type Publisher struct {
	client   *Client
	exchange string
}

// NewPublisher creates a publisher bound to one exchange.
func NewPublisher(client *Client, exchange string) *Publisher {
	return &Publisher{client: client, exchange: exchange}
}

// Publish sends body to the exchange under routingKey with persistent
// delivery mode. The channel is obtained per call, so a dropped connection
// is re-established transparently before the publish.
func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	ch, err := p.client.Channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	return nil
}
