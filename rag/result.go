// Package rag assembles grounded prompts, invokes the generation backend,
// and validates or repairs its output. Every failure resolves into a
// deterministic fallback result; nothing escapes this package as an error.
package rag

// Confidence reported by the model for its own answer.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// FallbackReason distinguishes why a deterministic fallback was served.
type FallbackReason string

const (
	ReasonMissingConfig FallbackReason = "missing_config"
	ReasonBackendError  FallbackReason = "backend_error"
	ReasonParseError    FallbackReason = "parse_error"
)

// Result is the structured outcome of one generation, fallback included.
type Result struct {
	Answer          string
	FollowUp        string
	Confidence      Confidence
	ShouldOfferDemo bool
	// Raw preserves the backend's last reply for diagnostics only; it never
	// reaches the user.
	Raw            string
	UsedFallback   bool
	FallbackReason FallbackReason
}
