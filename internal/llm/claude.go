package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// jsonOnly is appended to the system prompt; the Messages API has no JSON mode.
const jsonOnly = "\n\nRespond with a single JSON value only."

// ClaudeClient implements Client for Anthropic Claude
type ClaudeClient struct {
	client anthropic.Client
	config *Config
}

// NewClaudeClient creates a new Claude client. A nil cfg uses the built-in models.
func NewClaudeClient(cfg *Config, apiKey string) (*ClaudeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg == nil {
		cfg = ConfigFor(ProviderAnthropic)
	}
	return &ClaudeClient{
		client: anthropic.NewClient(anthropicoption.WithAPIKey(apiKey)),
		config: cfg,
	}, nil
}

// Generate sends the request through the Messages API.
func (c *ClaudeClient) Generate(ctx context.Context, req Request) (string, error) {
	name := c.config.Model(req.Task)
	if name == "" {
		return "", fmt.Errorf("no model configured for task %s", req.Task)
	}
	maxTokens := c.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(name),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(float64(c.config.Temperature)),
		System:      []anthropic.TextBlockParam{{Text: req.Instructions + jsonOnly}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Content)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude %s: %w", req.Task, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response (stop reason %s)", msg.StopReason)
	}
	return sb.String(), nil
}

// Model returns the model that runs task.
func (c *ClaudeClient) Model(task Task) string {
	return c.config.Model(task)
}

// Close is a no-op; the Anthropic client holds no resources.
func (c *ClaudeClient) Close() error {
	return nil
}
