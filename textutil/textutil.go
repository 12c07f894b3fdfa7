// Package textutil provides the text canonicalization helpers shared by
// retrieval, intent detection, and prompt assembly.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const DefaultExcerptLength = 220

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes text for matching: lower case, diacritics removed,
// punctuation replaced by spaces, whitespace collapsed. It never fails and is
// idempotent, so Normalize(Normalize(s)) == Normalize(s).
func Normalize(input string) string {
	lowered := strings.ToLower(input)

	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Truncate shortens input to at most max runes, appending an ellipsis when
// content was dropped.
func Truncate(input string, max int) string {
	if max <= 0 {
		return ""
	}

	r := []rune(input)
	if len(r) <= max {
		return input
	}

	return strings.TrimSpace(string(r[:max-1])) + "…"
}

// SplitParagraphs breaks text into blank-line-separated blocks, collapsing
// internal newlines to spaces.
func SplitParagraphs(input string) []string {
	clean := strings.ReplaceAll(input, "\r\n", "\n")

	var paragraphs []string
	for _, block := range splitOnBlankLines(clean) {
		joined := strings.Join(strings.Fields(block), " ")
		if joined != "" {
			paragraphs = append(paragraphs, joined)
		}
	}
	return paragraphs
}

func splitOnBlankLines(input string) []string {
	var (
		blocks  []string
		current []string
	)

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}
