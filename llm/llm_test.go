package llm

import (
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientOllamaDefaults(t *testing.T) {
	client, err := NewClient(Options{
		Provider: ProviderOllama,
		Model:    "llama3.1:8b",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClientOpenAIRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Options{
		Provider: ProviderOpenAI,
		Model:    "gpt-4o-mini",
	})
	assert.Error(t, err)
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(Options{Provider: "bedrock"})
	assert.Error(t, err)
}

func TestMapOpenAIErrorClassifiesKinds(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   ErrorKind
	}{
		{"auth", 401, KindAuth},
		{"forbidden", 403, KindAuth},
		{"rate limit", 429, KindRateLimit},
		{"server", 500, KindProvider},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapOpenAIError(&openai.APIError{
				HTTPStatusCode: tc.status,
				Message:        "boom",
				Type:           "test_error",
			})

			var llmErr *Error
			require.ErrorAs(t, mapped, &llmErr)
			assert.Equal(t, tc.kind, llmErr.Kind)
			assert.Equal(t, tc.status, llmErr.HTTPStatus)
			assert.Equal(t, "test_error", llmErr.ProviderCode)
		})
	}
}

func TestMapOpenAIErrorTransport(t *testing.T) {
	mapped := mapOpenAIError(errors.New("dial tcp: connection refused"))

	var llmErr *Error
	require.ErrorAs(t, mapped, &llmErr)
	assert.Equal(t, KindTransport, llmErr.Kind)
	assert.Zero(t, llmErr.HTTPStatus)
}
