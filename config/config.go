// Package config holds process configuration, read once at startup and
// injected into constructors so the pipeline itself never touches the
// environment.
package config

import (
	"os"
	"strconv"
)

type LLMConfig struct {
	Provider    string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Links are the outbound destinations surfaced in CTA chips.
type Links struct {
	Pricing  string
	BookDemo string
	UseCases string
}

type Config struct {
	HTTPAddr string
	Debug    bool

	KnowledgeDir string
	PricingFile  string

	LLM LLMConfig
	// IntentModel enables the secondary LLM intent pass; empty disables it.
	IntentModel string

	OllamaHost    string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	Links Links
}

func Load() Config {
	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Debug:    getEnv("DEBUG", "") == "true",

		KnowledgeDir: getEnv("KNOWLEDGE_DIR", "data/knowledge"),
		PricingFile:  getEnv("PRICING_FILE", "camaral_pricing.md"),

		LLM: LLMConfig{
			Provider:    getEnv("LLM_PROVIDER", "openai"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.2),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 500),
		},
		IntentModel: getEnv("INTENT_MODEL", ""),

		OllamaHost:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		Links: Links{
			Pricing:  getEnv("LINK_PRICING", "https://camaral.ai/precios"),
			BookDemo: getEnv("LINK_BOOK_DEMO", "https://camaral.ai/demo"),
			UseCases: getEnv("LINK_USE_CASES", "https://camaral.ai/casos-de-uso"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float32) float32 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return fallback
}
