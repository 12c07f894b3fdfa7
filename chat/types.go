package chat

import (
	"github.com/camaral/assistant/cta"
	"github.com/camaral/assistant/intent"
	"github.com/camaral/assistant/rag"
	"github.com/camaral/assistant/retrieval"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one conversation turn, owned by the caller. The pipeline only
// reads a bounded recent window.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the inbound chat payload: the full history plus an optional
// locale hint. No conversation state is kept between requests.
type Request struct {
	Messages []Message `json:"messages"`
	Locale   string    `json:"locale,omitempty"`
}

// Diagnostics reports how the answer was produced. Always populated; whether
// it is exposed to the caller is the boundary's decision.
type Diagnostics struct {
	UsedFallback   bool               `json:"usedFallback"`
	FallbackReason rag.FallbackReason `json:"fallbackReason,omitempty"`
	Confidence     rag.Confidence     `json:"confidence,omitempty"`
}

// Response is the structured reply for one request.
type Response struct {
	AssistantText string              `json:"assistantText"`
	Sources       []retrieval.Snippet `json:"sources"`
	Intent        intent.Intent       `json:"intent"`
	CtaChips      []cta.Chip          `json:"ctaChips"`

	Diagnostics Diagnostics `json:"-"`
}
