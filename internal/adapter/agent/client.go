// Package agent implements the external generation capability used by the
// review pipeline. Each method is one stage call: a stage-specific instruction
// plus the post's title and body, bounded by the configured timeout. Stages do
// not retry; a timeout or API error is surfaced to the caller.
package agent

import (
	"context"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/inkwell-backend/internal/config"
)

// Client calls the generation model for review stages.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
	timeout   timeoutFn
}

type timeoutFn = func(context.Context) (context.Context, context.CancelFunc)

// NewClient creates a generation client from AgentConfig.
func NewClient(cfg config.AgentConfig) *Client {
	return &Client{
		api:       anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		timeout: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, cfg.Timeout)
		},
	}
}

// TechnicalReview produces the technical critique report. The report's last
// line carries the verdict marker parsed by the pipeline.
func (c *Client) TechnicalReview(ctx context.Context, title, body string) (string, error) {
	return c.generate(ctx, technicalPrompt(title, body))
}

// StyleCheck produces the style and structure critique.
func (c *Client) StyleCheck(ctx context.Context, title, body string) (string, error) {
	return c.generate(ctx, stylePrompt(title, body))
}

// Summarize condenses the technical and style reports into an issue summary.
func (c *Client) Summarize(ctx context.Context, technical, style string) (string, error) {
	return c.generate(ctx, summaryPrompt(technical, style))
}

// Rewrite produces a full revised article. The technical and style findings
// may be empty when the corresponding stages did not run.
func (c *Client) Rewrite(ctx context.Context, title, body, technical, style string) (string, error) {
	return c.generate(ctx, rewritePrompt(title, body, technical, style))
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := c.timeout(ctx)
	defer cancel()

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("generation call: %w", err)
	}

	if len(msg.Content) == 0 {
		return "", fmt.Errorf("generation call: empty response")
	}

	return msg.Content[0].Text, nil
}
