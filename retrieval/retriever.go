// Package retrieval ranks knowledge paragraphs against a user query using
// plain lexical scoring. No embeddings, no index: the knowledge base is small
// enough that substring matching over normalized text is both sufficient and
// fully deterministic.
package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/camaral/assistant/knowledge"
	"github.com/camaral/assistant/textutil"
)

const pricingAugmentLimit = 2

// Snippet is the externally visible grounding unit: a bounded excerpt of a
// loaded document. Snippets are only ever built from real paragraphs; the
// retriever never synthesizes content.
type Snippet struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	File    string `json:"file"`
}

type scoredParagraph struct {
	text  string
	score int
	title string
	file  string
}

// Retriever scores knowledge paragraphs against queries.
type Retriever struct {
	store       *knowledge.Store
	pricingFile string
	logger      zerolog.Logger
}

func New(store *knowledge.Store, pricingFile string, logger zerolog.Logger) *Retriever {
	return &Retriever{store: store, pricingFile: pricingFile, logger: logger}
}

// Retrieve returns up to limit snippets ordered by descending score, ties
// keeping discovery order. An empty or unparseable query matches every
// paragraph at score zero so the caller always gets grounding material.
func (r *Retriever) Retrieve(ctx context.Context, query string, limit int) ([]Snippet, error) {
	if limit <= 0 {
		return nil, nil
	}

	docs, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	tokens := Tokenize(query)
	var scored []scoredParagraph

	for _, doc := range docs {
		for _, paragraph := range doc.Paragraphs {
			score := scoreParagraph(paragraph, tokens)
			if score > 0 || len(tokens) == 0 {
				scored = append(scored, scoredParagraph{
					text:  paragraph,
					score: score,
					title: doc.Title,
					file:  doc.File,
				})
			}
		}
	}

	if len(scored) == 0 {
		return nil, nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	snippets := make([]Snippet, len(scored))
	for i, item := range scored {
		snippets[i] = Snippet{
			Title:   item.title,
			Excerpt: textutil.Truncate(item.text, textutil.DefaultExcerptLength),
			File:    item.file,
		}
	}
	return snippets, nil
}

// EnsurePricing guarantees that at least one snippet from the pricing
// document is present, prepending currency-bearing paragraphs and capping the
// combined list back to limit. No-op when the general pass already surfaced
// the pricing file or the file cannot be read.
func (r *Retriever) EnsurePricing(ctx context.Context, snippets []Snippet, limit int) []Snippet {
	for _, snippet := range snippets {
		if snippet.File == r.pricingFile {
			return snippets
		}
	}

	pricing := r.pricingSnippets(ctx, pricingAugmentLimit)
	if len(pricing) == 0 {
		return snippets
	}

	combined := append(pricing, snippets...)
	if len(combined) > limit {
		combined = combined[:limit]
	}
	return combined
}

func (r *Retriever) pricingSnippets(ctx context.Context, limit int) []Snippet {
	doc, err := r.store.LoadFile(ctx, r.pricingFile)
	if err != nil {
		r.logger.Warn().Str("file", r.pricingFile).Err(err).Msg("pricing document unavailable")
		return nil
	}

	prioritized := make([]string, 0, len(doc.Paragraphs))
	for _, paragraph := range doc.Paragraphs {
		if strings.Contains(paragraph, "$") {
			prioritized = append(prioritized, paragraph)
		}
	}
	if len(prioritized) == 0 {
		prioritized = doc.Paragraphs
	}
	if len(prioritized) > limit {
		prioritized = prioritized[:limit]
	}

	snippets := make([]Snippet, len(prioritized))
	for i, paragraph := range prioritized {
		snippets[i] = Snippet{
			Title:   doc.Title,
			Excerpt: textutil.Truncate(paragraph, textutil.DefaultExcerptLength),
			File:    doc.File,
		}
	}
	return snippets
}

// Tokenize normalizes the query and drops short stop-word-like tokens.
func Tokenize(query string) []string {
	normalized := textutil.Normalize(query)
	if normalized == "" {
		return nil
	}

	fields := strings.Fields(normalized)
	tokens := fields[:0]
	for _, field := range fields {
		if len([]rune(field)) > 2 {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// Tokens match as substrings of the normalized paragraph, so "precio" also
// hits "precios".
func scoreParagraph(paragraph string, tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}

	normalized := textutil.Normalize(paragraph)
	score := 0
	for _, token := range tokens {
		if strings.Contains(normalized, token) {
			score++
		}
	}
	return score
}
