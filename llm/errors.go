package llm

import "fmt"

// ErrorKind classifies backend failures so callers can pattern-match on a
// fixed set of kinds instead of probing provider-specific error shapes.
type ErrorKind string

const (
	// KindAuth covers invalid or rejected credentials.
	KindAuth ErrorKind = "auth"
	// KindRateLimit covers quota and throttling rejections.
	KindRateLimit ErrorKind = "rate_limit"
	// KindTransport covers network-level failures before a provider reply.
	KindTransport ErrorKind = "transport"
	// KindProvider covers everything the provider rejected for other reasons.
	KindProvider ErrorKind = "provider"
)

// Error is the structured failure produced by backend adapters.
type Error struct {
	Kind         ErrorKind
	Message      string
	HTTPStatus   int
	ProviderCode string
}

func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("llm %s error (status %d): %s", e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("llm %s error: %s", e.Kind, e.Message)
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 429:
		return KindRateLimit
	default:
		return KindProvider
	}
}
