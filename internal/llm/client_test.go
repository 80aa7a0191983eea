package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	got      Request
	response string
}

func (s *stubClient) Generate(_ context.Context, req Request) (string, error) {
	s.got = req
	return s.response, nil
}

func (s *stubClient) Model(Task) string { return "stub" }
func (s *stubClient) Close() error      { return nil }

func TestNewCompleter_BindsTask(t *testing.T) {
	for _, task := range []Task{TaskExtract, TaskScore} {
		t.Run(string(task), func(t *testing.T) {
			stub := &stubClient{response: `{"ok": true}`}
			out, err := NewCompleter(stub, task).Complete(context.Background(), "be precise", "resume text")
			require.NoError(t, err)
			assert.Equal(t, `{"ok": true}`, out)
			assert.Equal(t, Request{Task: task, Instructions: "be precise", Content: "resume text"}, stub.got)
		})
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), ConfigFor(ProviderAnthropic), "")
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewClient(context.Background(), ConfigFor(ProviderGemini), "")
	assert.ErrorContains(t, err, "API key is required")
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "openai"}, "key")
	assert.ErrorContains(t, err, `unsupported LLM provider "openai"`)
}

func TestNewClaudeClient(t *testing.T) {
	client, err := NewClaudeClient(nil, "test-key")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", client.Model(TaskExtract))
	assert.Equal(t, "claude-sonnet-4-20250514", client.Model(TaskScore))
	assert.NoError(t, client.Close())
}
