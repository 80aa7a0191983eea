package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longSecret = "0123456789abcdef0123456789abcdef"

func TestLoadJWTConfig(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		ttl        string
		issuer     string
		wantTTL    time.Duration
		wantIssuer string
		wantErr    string
	}{
		{name: "defaults", secret: longSecret, wantTTL: 24 * time.Hour, wantIssuer: "blyn"},
		{name: "custom ttl and issuer", secret: longSecret, ttl: "90m", issuer: "blyn-staging", wantTTL: 90 * time.Minute, wantIssuer: "blyn-staging"},
		{name: "missing secret", ttl: "1h", wantErr: "JWT_SECRET is required"},
		{name: "short secret", secret: "s3cret", wantErr: "Secret"},
		{name: "unparseable ttl", secret: longSecret, ttl: "soon", wantErr: "invalid JWT_TTL"},
		{name: "ttl too short", secret: longSecret, ttl: "30s", wantErr: "TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvJWTSecret, tt.secret)
			t.Setenv(EnvJWTTTL, tt.ttl)
			t.Setenv(EnvJWTIssuer, tt.issuer)

			cfg, err := LoadJWTConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, cfg)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.Secret)
			assert.Equal(t, tt.wantTTL, cfg.TTL)
			assert.Equal(t, tt.wantIssuer, cfg.Issuer)
		})
	}
}

func TestJWTConfigFromEnv_Optional(t *testing.T) {
	t.Setenv(EnvJWTSecret, "")
	t.Setenv(EnvJWTTTL, "")
	t.Setenv(EnvJWTIssuer, "")
	cfg, err := JWTConfigFromEnv()
	require.NoError(t, err)
	assert.Nil(t, cfg, "no secret disables authentication")

	t.Setenv(EnvJWTSecret, longSecret)
	cfg, err = JWTConfigFromEnv()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultJWTTTL, cfg.TTL)

	t.Setenv(EnvJWTTTL, "bad")
	_, err = JWTConfigFromEnv()
	assert.Error(t, err)
}
