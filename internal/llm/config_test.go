package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFor(t *testing.T) {
	tests := []struct {
		provider    Provider
		wantExtract string
		wantScore   string
	}{
		{ProviderGemini, "gemini-2.5-flash-lite", "gemini-2.5-flash"},
		{ProviderAnthropic, "claude-3-5-haiku-latest", "claude-sonnet-4-20250514"},
		{"unknown", "gemini-2.5-flash-lite", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			cfg := ConfigFor(tt.provider)
			assert.Equal(t, tt.wantExtract, cfg.Model(TaskExtract))
			assert.Equal(t, tt.wantScore, cfg.Model(TaskScore))
			assert.Positive(t, cfg.MaxTokens)
		})
	}
}

func TestModel_FallsBackToDefault(t *testing.T) {
	cfg := &Config{Default: "base", Models: map[Task]string{TaskScore: ""}}
	assert.Equal(t, "base", cfg.Model(TaskScore))
	assert.Equal(t, "base", cfg.Model("unknown"))

	assert.Equal(t, "", (&Config{}).Model(TaskExtract))
}

func TestWithModel(t *testing.T) {
	cfg := ConfigFor(ProviderGemini)

	overridden := cfg.WithModel(" gemini-2.5-pro ")
	assert.Equal(t, "gemini-2.5-pro", overridden.Model(TaskExtract))
	assert.Equal(t, "gemini-2.5-pro", overridden.Model(TaskScore))
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Model(TaskExtract), "receiver is unchanged")

	assert.Same(t, cfg, cfg.WithModel(""))
}

func TestWithTaskModel(t *testing.T) {
	cfg := ConfigFor(ProviderAnthropic)
	custom := cfg.WithTaskModel(TaskScore, "claude-opus-4-1")

	assert.Equal(t, "claude-opus-4-1", custom.Model(TaskScore))
	assert.Equal(t, "claude-3-5-haiku-latest", custom.Model(TaskExtract))
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Model(TaskScore))

	empty := (&Config{Default: "d"}).WithTaskModel(TaskExtract, "x")
	assert.Equal(t, "x", empty.Model(TaskExtract))
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{in: "", want: ProviderGemini},
		{in: "Gemini", want: ProviderGemini},
		{in: "anthropic", want: ProviderAnthropic},
		{in: " claude ", want: ProviderAnthropic},
		{in: "openai", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProvider(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
