package textutil

import "regexp"

const redactedPlaceholder = "***REDACTED***"

// Secret-shaped substrings stripped before any diagnostic logging: provider
// key prefixes, bearer headers, and long mixed alphanumeric tokens.
var (
	openAIKeyPattern  = regexp.MustCompile(`sk-[A-Za-z0-9]{10,}`)
	bearerPattern     = regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-_.]+`)
	longTokenPattern  = regexp.MustCompile(`[A-Za-z0-9_-]{32,}`)
	hasLetterAndDigit = regexp.MustCompile(`^(?:.*[A-Za-z].*\d|.*\d.*[A-Za-z]).*$`)
)

// Redact replaces secret-shaped substrings with a fixed placeholder. Applied
// at every diagnostic boundary; user-visible answers never pass through it
// because raw error detail never reaches them in the first place.
func Redact(input string) string {
	out := openAIKeyPattern.ReplaceAllString(input, redactedPlaceholder)
	out = bearerPattern.ReplaceAllString(out, redactedPlaceholder)
	out = longTokenPattern.ReplaceAllStringFunc(out, func(match string) string {
		if hasLetterAndDigit.MatchString(match) {
			return redactedPlaceholder
		}
		return match
	})
	return out
}
