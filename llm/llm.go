// Package llm adapts external text-generation backends behind a single
// JSON-mode client interface.
package llm

import (
	"context"
	"fmt"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Client generates a single machine-readable (JSON object) completion for
// the given messages.
type Client interface {
	GenerateJSON(ctx context.Context, messages []Message) (string, error)
}

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type Options struct {
	Provider    string
	Model       string
	Temperature float32
	MaxTokens   int

	OllamaHost    string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

func NewClient(opts Options) (Client, error) {
	switch opts.Provider {
	case ProviderOllama:
		return NewOllamaClient(opts), nil
	case ProviderOpenAI:
		if opts.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but OPENAI_API_KEY not set")
		}
		return NewOpenAIClient(opts), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", opts.Provider)
	}
}
