package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be > 0 (got %v)", c.Redis.TTL)
	}

	if !strings.HasPrefix(c.Broker.URL, "amqp://") && !strings.HasPrefix(c.Broker.URL, "amqps://") {
		return fmt.Errorf("broker.url must be an amqp:// or amqps:// URL")
	}
	if c.Broker.Exchange == "" {
		return fmt.Errorf("broker.exchange must not be empty")
	}

	if c.Agent.Timeout <= 0 {
		return fmt.Errorf("agent.timeout must be > 0 (got %v)", c.Agent.Timeout)
	}
	if c.Agent.MaxTokens <= 0 {
		return fmt.Errorf("agent.max_tokens must be > 0 (got %d)", c.Agent.MaxTokens)
	}

	return nil
}
