// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv
const (
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvDeployToken     = "NETLIFY_TOKEN"
	EnvGCSBucket       = "GCS_BUCKET"
)

// Config holds settings loaded from a JSON or YAML file. All fields are optional;
// CLI flags override them and Defaults fills what is still empty.
type Config struct {
	// Collaborator
	Provider        string `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=gemini anthropic"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty"`
	Model           string `json:"model,omitempty" yaml:"model,omitempty"` // runs every task on one model

	// Storage
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL; takes precedence over LocalDBPath
	LocalDBPath string `json:"local_db_path,omitempty" yaml:"local_db_path,omitempty"`
	GCSBucket   string `json:"gcs_bucket,omitempty" yaml:"gcs_bucket,omitempty"` // uploaded documents are staged here when set

	// Hosting
	DeployToken   string `json:"deploy_token,omitempty" yaml:"deploy_token,omitempty"`
	DeployBaseURL string `json:"deploy_base_url,omitempty" yaml:"deploy_base_url,omitempty" validate:"omitempty,url"`

	// Rendering defaults
	ResumeStyle       string `json:"resume_style,omitempty" yaml:"resume_style,omitempty"`
	CoverLetterTone   string `json:"cover_letter_tone,omitempty" yaml:"cover_letter_tone,omitempty"`
	PortfolioTemplate string `json:"portfolio_template,omitempty" yaml:"portfolio_template,omitempty"`

	// Behavior
	Port           int  `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	TimeoutSeconds int  `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"gte=0"`
	UseBrowser     bool `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // render job pages in a headless browser
	Verbose        bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:          "gemini",
		LocalDBPath:       filepath.Join(".blyn", "blyn.db"),
		DeployBaseURL:     "https://api.netlify.com/api/v1",
		ResumeStyle:       "modern",
		CoverLetterTone:   "professional",
		PortfolioTemplate: "default",
		Port:              8080,
		TimeoutSeconds:    60,
	}
}

// LoadConfig loads configuration from a file. Files ending in .yaml or .yml are read
// as YAML; anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields are
// checked by the commands that need them.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.LocalDBPath != "" && strings.HasSuffix(c.LocalDBPath, string(os.PathSeparator)) {
		return fmt.Errorf("config error: 'local_db_path' must be a file, got directory %s", c.LocalDBPath)
	}
	return nil
}

// ApplyEnv fills empty secrets and connection settings from the environment.
func (c *Config) ApplyEnv() {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	fill(&c.GeminiAPIKey, EnvGeminiAPIKey)
	fill(&c.AnthropicAPIKey, EnvAnthropicAPIKey)
	fill(&c.DatabaseURL, EnvDatabaseURL)
	fill(&c.DeployToken, EnvDeployToken)
	fill(&c.GCSBucket, EnvGCSBucket)
}

// APIKey returns the key for the configured collaborator provider.
func (c *Config) APIKey() string {
	if c.Provider == "anthropic" {
		return c.AnthropicAPIKey
	}
	return c.GeminiAPIKey
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fields := []struct {
		dst *string
		src string
	}{
		{&result.Provider, defaults.Provider},
		{&result.GeminiAPIKey, defaults.GeminiAPIKey},
		{&result.AnthropicAPIKey, defaults.AnthropicAPIKey},
		{&result.Model, defaults.Model},
		{&result.DatabaseURL, defaults.DatabaseURL},
		{&result.LocalDBPath, defaults.LocalDBPath},
		{&result.GCSBucket, defaults.GCSBucket},
		{&result.DeployToken, defaults.DeployToken},
		{&result.DeployBaseURL, defaults.DeployBaseURL},
		{&result.ResumeStyle, defaults.ResumeStyle},
		{&result.CoverLetterTone, defaults.CoverLetterTone},
		{&result.PortfolioTemplate, defaults.PortfolioTemplate},
	}
	for _, field := range fields {
		if *field.dst == "" {
			*field.dst = field.src
		}
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bools cannot distinguish unset from false, so CLI flags always win for them.
	return result
}
