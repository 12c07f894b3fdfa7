package rag

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/camaral/assistant/intent"
	"github.com/camaral/assistant/llm"
	"github.com/camaral/assistant/retrieval"
	"github.com/camaral/assistant/textutil"
)

const maxAttempts = 2

// Input carries everything the orchestrator needs to ground one answer.
type Input struct {
	Query    string
	Messages []llm.Message
	Intent   intent.Intent
	Snippets []retrieval.Snippet
}

// Generator orchestrates prompt assembly, backend invocation, and
// validation. A nil client means the backend is unconfigured and every call
// resolves to the missing-configuration fallback before any network attempt.
type Generator struct {
	client llm.Client
	logger zerolog.Logger
}

func NewGenerator(client llm.Client, logger zerolog.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

// Generate produces a Result for the given input. It never fails: backend
// and parse errors collapse into deterministic fallback results.
func (g *Generator) Generate(ctx context.Context, in Input) Result {
	transcript := buildTranscript(in.Messages)
	snippets := buildSnippetsBlock(in.Snippets)
	system := systemPrompt()
	base := buildUserPrompt(in.Query, in.Intent, transcript, snippets)
	hasSnippets := len(in.Snippets) > 0

	if g.client == nil {
		g.logger.Warn().Str("intent", string(in.Intent)).Msg("generation backend not configured")
		return fallback(in.Intent, hasSnippets, ReasonMissingConfig, "")
	}

	result, err := withRetries(ctx, maxAttempts, func(ctx context.Context, attempt int) (Result, error) {
		g.logger.Info().
			Str("intent", string(in.Intent)).
			Int("snippet_count", len(in.Snippets)).
			Int("attempt", attempt).
			Msg("llm call")

		raw, callErr := g.client.GenerateJSON(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: promptForAttempt(base, attempt, maxAttempts)},
		})
		if callErr != nil {
			g.logger.Warn().
				Int("attempt", attempt).
				Str("error", textutil.Redact(callErr.Error())).
				Msg("llm call failed")
			return Result{}, &attemptError{reason: ReasonBackendError, cause: callErr}
		}

		parsed, ok := parseResult(raw)
		if !ok {
			g.logger.Warn().Int("attempt", attempt).Msg("llm output failed validation")
			return Result{}, &attemptError{reason: ReasonParseError, raw: raw}
		}
		return parsed, nil
	})
	if err == nil {
		return result
	}

	attemptErr, ok := err.(*attemptError)
	if !ok {
		// Only context cancellation reaches here; treat it as a backend failure.
		attemptErr = &attemptError{reason: ReasonBackendError, cause: err}
	}
	return fallback(in.Intent, hasSnippets, attemptErr.reason, attemptErr.raw)
}

// attemptError carries the failure class and any raw backend text across the
// retry boundary.
type attemptError struct {
	reason FallbackReason
	raw    string
	cause  error
}

func (e *attemptError) Error() string {
	if e.cause != nil {
		return string(e.reason) + ": " + e.cause.Error()
	}
	return string(e.reason)
}

func (e *attemptError) Unwrap() error { return e.cause }

// withRetries runs fn up to maxAttempts times, strictly sequentially with no
// backoff, returning the first success or the last attempt's error.
func withRetries(ctx context.Context, maxAttempts int, fn func(ctx context.Context, attempt int) (Result, error)) (Result, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return Result{}, lastErr
}

// parseResult validates the backend payload: answer must be a non-empty
// string and the follow_up key must be present (null is fine). Anything else
// counts as a parse failure, not an exception.
func parseResult(raw string) (Result, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Result{}, false
	}
	if _, present := fields["follow_up"]; !present {
		return Result{}, false
	}

	var payload struct {
		Answer          string  `json:"answer"`
		FollowUp        *string `json:"follow_up"`
		Confidence      string  `json:"confidence"`
		ShouldOfferDemo bool    `json:"should_offer_demo"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Result{}, false
	}
	if strings.TrimSpace(payload.Answer) == "" {
		return Result{}, false
	}

	result := Result{
		Answer:          strings.TrimSpace(payload.Answer),
		Confidence:      Confidence(payload.Confidence),
		ShouldOfferDemo: payload.ShouldOfferDemo,
		Raw:             raw,
	}
	if payload.FollowUp != nil {
		result.FollowUp = strings.TrimSpace(*payload.FollowUp)
	}
	return result, true
}
