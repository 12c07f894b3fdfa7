// Package intent classifies user queries into the fixed set of categories
// that shape prompts and suggested actions.
package intent

import (
	"strings"

	"github.com/camaral/assistant/textutil"
)

// Intent is the coarse classification of a user goal.
type Intent string

const (
	HowItWorks Intent = "how_it_works"
	Pricing    Intent = "pricing"
	Demo       Intent = "demo"
	UseCases   Intent = "use_cases"
	Objections Intent = "objections"
	// General doubles as the no-confident-match default. A query with zero
	// keyword hits and a query genuinely about general product info are
	// indistinguishable downstream.
	General Intent = "general"
)

// Parse maps a label back to an Intent, reporting whether it is one of the
// known categories.
func Parse(label string) (Intent, bool) {
	switch Intent(strings.TrimSpace(strings.ToLower(label))) {
	case HowItWorks:
		return HowItWorks, true
	case Pricing:
		return Pricing, true
	case Demo:
		return Demo, true
	case UseCases:
		return UseCases, true
	case Objections:
		return Objections, true
	case General:
		return General, true
	default:
		return General, false
	}
}

// Keyword lists are matched as normalized substrings. Extend as the
// knowledge base grows.
var keywords = map[Intent][]string{
	Pricing: {
		"precio", "precios", "pricing", "cuanto cuesta", "coste", "costo",
		"planes", "plan", "tarifa",
	},
	Demo: {
		"demo", "agendar", "agenda", "reservar", "hablar con ventas",
		"equipo de ventas", "sales", "llamada", "call",
	},
	UseCases: {
		"casos de uso", "use cases", "ventas", "soporte", "onboarding",
		"implementaciones", "ejemplos",
	},
	HowItWorks: {
		"como funciona", "que es", "funciona", "features", "caracteristicas",
		"diferencia",
	},
	Objections: {
		"objecion", "objeciones", "reemplaza", "reemplazar", "miedo",
		"control de calidad", "calidad", "no reemplaza",
	},
}

// Priority is fixed: the first category with a match wins.
var priority = []Intent{Pricing, Demo, UseCases, HowItWorks, Objections}

// Detect runs the deterministic rule pass.
func Detect(query string) Intent {
	normalized := textutil.Normalize(query)
	if normalized == "" {
		return General
	}

	for _, candidate := range priority {
		if matchAny(normalized, keywords[candidate]) {
			return candidate
		}
	}
	return General
}

func matchAny(normalized string, words []string) bool {
	for _, word := range words {
		if strings.Contains(normalized, textutil.Normalize(word)) {
			return true
		}
	}
	return false
}
