// Package cta maps intents to the default call-to-action chips rendered
// alongside an answer. Pure data, no dependencies on retrieval or generation
// outcome: callers that receive richer action hints from generation may
// prefer those over this static mapping.
package cta

import (
	"github.com/camaral/assistant/config"
	"github.com/camaral/assistant/intent"
)

// Kind controls how a chip is rendered.
type Kind string

const (
	KindPrimary   Kind = "primary"
	KindSecondary Kind = "secondary"
	KindGhost     Kind = "ghost"
	// KindInput pre-fills the chat composer with Message instead of linking.
	KindInput Kind = "input"
)

// Chip is one suggested next step.
type Chip struct {
	Label   string `json:"label"`
	Kind    Kind   `json:"kind"`
	Href    string `json:"href,omitempty"`
	Message string `json:"message,omitempty"`
}

// ForIntent returns the fixed chip sequence for an intent. Deterministic:
// the same intent and links always produce the same chips.
func ForIntent(detected intent.Intent, links config.Links) []Chip {
	switch detected {
	case intent.HowItWorks, intent.UseCases:
		return []Chip{
			{Label: "Ver casos de uso", Href: links.UseCases, Kind: KindPrimary},
			{Label: "Agendar demo", Href: links.BookDemo, Kind: KindSecondary},
		}
	case intent.Pricing:
		return []Chip{
			{Label: "Ver precios", Href: links.Pricing, Kind: KindPrimary},
			{Label: "Agendar demo", Href: links.BookDemo, Kind: KindSecondary},
		}
	case intent.Demo:
		return []Chip{
			{Label: "Agendar demo", Href: links.BookDemo, Kind: KindPrimary},
			{Label: "Hablar con ventas", Kind: KindInput, Message: "Quiero hablar con ventas."},
		}
	case intent.Objections:
		return []Chip{
			{Label: "Resolver objeciones", Kind: KindInput, Message: "Tengo algunas objeciones y dudas sobre adopción. ¿Podemos revisarlas?"},
			{Label: "Agendar demo", Href: links.BookDemo, Kind: KindSecondary},
		}
	default:
		return []Chip{
			{Label: "¿Qué es Camaral?", Kind: KindInput, Message: "¿Qué es Camaral?"},
			{Label: "¿Cómo funciona?", Kind: KindInput, Message: "¿Cómo funciona Camaral?"},
			{Label: "Precios", Href: links.Pricing, Kind: KindSecondary},
			{Label: "Agendar demo", Href: links.BookDemo, Kind: KindPrimary},
		}
	}
}
