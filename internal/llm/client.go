package llm

import (
	"context"
	"fmt"
)

// Request is one collaborator call. Responses are always requested as JSON.
type Request struct {
	Task         Task
	Instructions string // sent as the system prompt
	Content      string // sent as the user turn
}

// Client is an abstraction over LLM providers
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	// Model reports which model runs task.
	Model(task Task) string
	Close() error
}

// NewClient creates a client for cfg.Provider. A nil cfg selects Gemini.
func NewClient(ctx context.Context, cfg *Config, apiKey string) (Client, error) {
	if cfg == nil {
		cfg = ConfigFor(ProviderGemini)
	}
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, apiKey)
	case ProviderAnthropic:
		return NewClaudeClient(cfg, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

// Completer is the text-completion collaborator used by extraction and analysis.
// Given instructions and content it returns the model's raw text.
type Completer interface {
	Complete(ctx context.Context, instructions, content string) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, instructions, content string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, instructions, content string) (string, error) {
	return f(ctx, instructions, content)
}

// NewCompleter binds a Client to one task.
func NewCompleter(client Client, task Task) Completer {
	return CompleterFunc(func(ctx context.Context, instructions, content string) (string, error) {
		return client.Generate(ctx, Request{Task: task, Instructions: instructions, Content: content})
	})
}
