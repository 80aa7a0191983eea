package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Session token environment variables.
const (
	EnvJWTSecret = "JWT_SECRET"
	EnvJWTTTL    = "JWT_TTL"
	EnvJWTIssuer = "JWT_ISSUER"
)

const (
	DefaultJWTTTL    = 24 * time.Hour
	DefaultJWTIssuer = "blyn"
)

// JWTConfig configures the HTTP API's HS256 session tokens.
type JWTConfig struct {
	Secret string        `validate:"min=32"`
	TTL    time.Duration `validate:"min=1m"`
	Issuer string        `validate:"required"`
}

// Validate checks the secret length and token lifetime.
func (c *JWTConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid JWT config: %w", err)
	}
	return nil
}

// LoadJWTConfig reads JWT_SECRET (required, at least 32 bytes), JWT_TTL (a Go
// duration, default 24h) and JWT_ISSUER (default "blyn").
func LoadJWTConfig() (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret: os.Getenv(EnvJWTSecret),
		TTL:    DefaultJWTTTL,
		Issuer: DefaultJWTIssuer,
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%s is required but not set", EnvJWTSecret)
	}
	if raw := os.Getenv(EnvJWTTTL); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvJWTTTL, err)
		}
		cfg.TTL = ttl
	}
	if issuer := os.Getenv(EnvJWTIssuer); issuer != "" {
		cfg.Issuer = issuer
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// JWTConfigFromEnv is LoadJWTConfig for servers where authentication is optional:
// an unset JWT_SECRET returns nil instead of an error.
func JWTConfigFromEnv() (*JWTConfig, error) {
	if os.Getenv(EnvJWTSecret) == "" {
		return nil, nil
	}
	return LoadJWTConfig()
}
