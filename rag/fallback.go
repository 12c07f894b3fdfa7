package rag

import (
	"strings"

	"github.com/camaral/assistant/intent"
)

// Deterministic fallback copy: reason-specific opening, intent-specific
// capability statement, snippet-availability clause. No model involved.
const (
	fallbackMissingConfig = "No pude generar una respuesta con IA porque falta configuración del servidor."
	fallbackTemporary     = "No pude generar una respuesta con IA por un error temporal."

	fallbackPricingBase = "Los planes existen, pero el detalle exacto varía; puedo llevarte a la página oficial o ayudarte a agendar una demo."
	fallbackGenericBase = "Puedo ayudarte con producto, casos de uso y una demo según tu necesidad."

	fallbackWithSources    = "Tengo información general disponible y puedo enfocarla a tu caso."
	fallbackWithoutSources = "No tengo ese detalle confirmado todavía."

	fallbackPricingFollowUp = "¿Quieres ver precios o prefieres una demo?"
	fallbackGenericFollowUp = "¿Qué objetivo quieres cubrir primero?"
)

func fallback(detected intent.Intent, hasSnippets bool, reason FallbackReason, raw string) Result {
	opening := fallbackTemporary
	if reason == ReasonMissingConfig {
		opening = fallbackMissingConfig
	}

	base := fallbackGenericBase
	followUp := fallbackGenericFollowUp
	if detected == intent.Pricing {
		base = fallbackPricingBase
		followUp = fallbackPricingFollowUp
	}

	availability := fallbackWithoutSources
	if hasSnippets {
		availability = fallbackWithSources
	}

	return Result{
		Answer:         strings.Join([]string{opening, base, availability}, " "),
		FollowUp:       followUp,
		Confidence:     ConfidenceLow,
		Raw:            raw,
		UsedFallback:   true,
		FallbackReason: reason,
	}
}
