// Package rabbitmq provides the broker client used by the mutation pipeline:
// a shared connection handle with lazy reconnect, topology declaration, a
// publisher, and a manual-ack consumer loop.
package rabbitmq

import (
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/heartmarshall/inkwell-backend/internal/config"
)

// Client is a process-wide broker connection handle. The connection and
// channel are established lazily on first use and re-established when
// dropped; Channel serializes (re)connection behind a mutex so two callers
// never dial concurrently.
type Client struct {
	url string
	log *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewClient creates a broker client. No connection is made until the first
// Channel call.
func NewClient(cfg config.BrokerConfig, log *slog.Logger) *Client {
	return &Client{
		url: cfg.URL,
		log: log.With("component", "rabbitmq"),
	}
}

// Channel returns a live channel, dialing or re-dialing as needed.
func (c *Client) Channel() (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.conn.IsClosed() {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			return nil, fmt.Errorf("dial broker: %w", err)
		}
		c.conn = conn
		c.ch = nil
	}

	if c.ch == nil || c.ch.IsClosed() {
		ch, err := c.conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("open channel: %w", err)
		}
		c.ch = ch
	}

	return c.ch, nil
}

// Close closes the channel and connection. Safe to call when never connected.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil && !c.ch.IsClosed() {
		if err := c.ch.Close(); err != nil {
			c.log.Error("close channel", "error", err)
		}
	}
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}
