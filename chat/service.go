// Package chat wires the pipeline together: query extraction, intent
// classification, retrieval, grounded generation, and CTA selection.
package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/camaral/assistant/config"
	"github.com/camaral/assistant/cta"
	"github.com/camaral/assistant/intent"
	"github.com/camaral/assistant/llm"
	"github.com/camaral/assistant/rag"
	"github.com/camaral/assistant/retrieval"
	"github.com/camaral/assistant/textutil"
)

const (
	defaultRetrieveLimit = 5
	queryPreviewLength   = 120
)

type Service struct {
	retriever  *retrieval.Retriever
	classifier *intent.Classifier
	generator  *rag.Generator
	links      config.Links
	logger     zerolog.Logger
}

func NewService(
	retriever *retrieval.Retriever,
	classifier *intent.Classifier,
	generator *rag.Generator,
	links config.Links,
	logger zerolog.Logger,
) *Service {
	return &Service{
		retriever:  retriever,
		classifier: classifier,
		generator:  generator,
		links:      links,
		logger:     logger,
	}
}

// Respond runs the full pipeline for one request. It never returns an error:
// retrieval failures yield empty sources and generation failures yield the
// deterministic fallback, so the caller always gets a well-formed response.
func (s *Service) Respond(ctx context.Context, req Request) Response {
	requestID := uuid.NewString()
	query := latestUserQuery(req.Messages)

	s.logger.Debug().
		Str("request_id", requestID).
		Int("message_count", len(req.Messages)).
		Str("query_preview", textutil.Redact(textutil.Truncate(query, queryPreviewLength))).
		Str("locale", req.Locale).
		Msg("chat request")

	// Classification and retrieval are independent; both must finish before
	// generation shapes its prompt.
	var (
		detected intent.Intent
		snippets []retrieval.Snippet
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		detected = s.classifier.Classify(groupCtx, query)
		return nil
	})
	group.Go(func() error {
		found, err := s.retriever.Retrieve(groupCtx, query, defaultRetrieveLimit)
		if err != nil {
			s.logger.Warn().Str("request_id", requestID).Err(err).Msg("retrieval unavailable")
			return nil
		}
		snippets = found
		return nil
	})
	_ = group.Wait()

	if detected == intent.Pricing {
		snippets = s.retriever.EnsurePricing(ctx, snippets, defaultRetrieveLimit)
	}

	s.logger.Debug().
		Str("request_id", requestID).
		Str("intent", string(detected)).
		Int("snippet_count", len(snippets)).
		Msg("chat grounding ready")

	result := s.generator.Generate(ctx, rag.Input{
		Query:    query,
		Messages: toLLMMessages(req.Messages),
		Intent:   detected,
		Snippets: snippets,
	})

	s.logger.Debug().
		Str("request_id", requestID).
		Bool("used_fallback", result.UsedFallback).
		Str("fallback_reason", string(result.FallbackReason)).
		Str("confidence", string(result.Confidence)).
		Msg("chat response")

	if snippets == nil {
		snippets = []retrieval.Snippet{}
	}

	return Response{
		AssistantText: result.Answer,
		Sources:       snippets,
		Intent:        detected,
		CtaChips:      cta.ForIntent(detected, s.links),
		Diagnostics: Diagnostics{
			UsedFallback:   result.UsedFallback,
			FallbackReason: result.FallbackReason,
			Confidence:     result.Confidence,
		},
	}
}

// latestUserQuery scans history from the end for the most recent user turn.
// No user turn means an empty query, which still flows through safely.
func latestUserQuery(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func toLLMMessages(messages []Message) []llm.Message {
	if len(messages) == 0 {
		return nil
	}
	converted := make([]llm.Message, len(messages))
	for i, message := range messages {
		converted[i] = llm.Message{Role: message.Role, Content: message.Content}
	}
	return converted
}
