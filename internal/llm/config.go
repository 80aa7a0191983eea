// Package llm connects the extraction and scoring steps to a hosted model. Callers
// depend on the narrow Completer contract; Client hides the provider SDKs.
package llm

import (
	"fmt"
	"maps"
	"strings"
)

// Task names a collaborator job. Each task may run on its own model.
type Task string

const (
	// TaskExtract turns a resume document or pasted text into profile JSON.
	TaskExtract Task = "extract"
	// TaskScore produces a gap-analysis score report.
	TaskScore Task = "score"
)

// Provider represents an LLM provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// Config selects a provider and the model for each task. Tasks without an entry
// in Models use Default.
type Config struct {
	Provider    Provider
	Default     string
	Models      map[Task]string
	Temperature float32
	MaxTokens   int64
}

// ConfigFor returns the built-in configuration for a provider.
func ConfigFor(provider Provider) *Config {
	if provider == ProviderAnthropic {
		return &Config{
			Provider:    ProviderAnthropic,
			Default:     "claude-sonnet-4-20250514",
			Models:      map[Task]string{TaskExtract: "claude-3-5-haiku-latest"},
			Temperature: 0.1,
			MaxTokens:   4096,
		}
	}
	return &Config{
		Provider:    ProviderGemini,
		Default:     "gemini-2.5-flash",
		Models:      map[Task]string{TaskExtract: "gemini-2.5-flash-lite"},
		Temperature: 0.1,
		MaxTokens:   4096,
	}
}

// ParseProvider converts a provider name (case-insensitive) into a Provider.
// An empty name selects Gemini.
func ParseProvider(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(ProviderGemini):
		return ProviderGemini, nil
	case string(ProviderAnthropic), "claude":
		return ProviderAnthropic, nil
	default:
		return "", fmt.Errorf("unsupported LLM provider %q", name)
	}
}

// Model returns the model that runs task.
func (c *Config) Model(task Task) string {
	if model := c.Models[task]; model != "" {
		return model
	}
	return c.Default
}

// WithModel returns a copy that runs every task on model. An empty model returns
// the receiver unchanged.
func (c *Config) WithModel(model string) *Config {
	model = strings.TrimSpace(model)
	if model == "" {
		return c
	}
	out := *c
	out.Default = model
	out.Models = nil
	return &out
}

// WithTaskModel returns a copy with one task's model replaced.
func (c *Config) WithTaskModel(task Task, model string) *Config {
	out := *c
	out.Models = maps.Clone(c.Models)
	if out.Models == nil {
		out.Models = make(map[Task]string)
	}
	out.Models[task] = model
	return &out
}
