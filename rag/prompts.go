package rag

import (
	"fmt"
	"strings"

	"github.com/camaral/assistant/intent"
	"github.com/camaral/assistant/llm"
	"github.com/camaral/assistant/retrieval"
	"github.com/camaral/assistant/textutil"
)

const (
	maxContextMessages   = 8
	messageExcerptLength = 360

	noContextMarker  = "(sin contexto)"
	noSnippetsMarker = "(sin snippets relevantes)"

	strictJSONInstruction = "IMPORTANTE: responde SOLO con JSON válido."
)

var systemPromptLines = []string{
	"Eres un asistente comercial de Camaral (ventas/soporte).",
	"Idioma: español neutro. Tono: profesional, directo, claro y humano.",
	"No inventes features, integraciones ni precios. Usa solo los snippets.",
	"Si la info no está en snippets, dilo explícitamente y ofrece página oficial o demo.",
	"Evita solicitar o revelar datos sensibles. No des asesoría médica ni legal.",
	"Formato: 1 párrafo + (opcional) hasta 3 bullets + 1 pregunta final.",
	"No digas: 'basado en la base de conocimiento' ni 'encontré'.",
	"Si el intent es how_it_works, explica en 3 pasos: (1) se configura, (2) atiende/guía, (3) escala/analiza.",
	"Si el intent es pricing, no inventes números; menciona planes solo si aparecen.",
	"Si el intent es demo, confirma y empuja CTA.",
	"Si el intent es objections, responde con empatía y lo disponible en snippets.",
	"Responde con JSON estricto con las claves: answer, follow_up, confidence, should_offer_demo.",
	"confidence debe ser uno de: high, medium, low.",
}

func systemPrompt() string {
	return strings.Join(systemPromptLines, " ")
}

// buildTranscript renders the bounded recent conversation window. Empty
// history yields an explicit marker so the prompt never contains an
// ambiguous empty block.
func buildTranscript(messages []llm.Message) string {
	recent := messages
	if len(recent) > maxContextMessages {
		recent = recent[len(recent)-maxContextMessages:]
	}

	lines := make([]string, 0, len(recent))
	for _, message := range recent {
		lines = append(lines, fmt.Sprintf("%s: %s",
			strings.ToUpper(message.Role),
			textutil.Truncate(message.Content, messageExcerptLength)))
	}

	if len(lines) == 0 {
		return noContextMarker
	}
	return strings.Join(lines, "\n")
}

func buildSnippetsBlock(snippets []retrieval.Snippet) string {
	if len(snippets) == 0 {
		return noSnippetsMarker
	}

	blocks := make([]string, 0, len(snippets))
	for i, snippet := range snippets {
		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf("Snippet %d: %s", i+1, snippet.Title),
			snippet.Excerpt,
			fmt.Sprintf("Archivo: %s", snippet.File),
		}, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func buildUserPrompt(query string, detected intent.Intent, transcript, snippets string) string {
	return strings.Join([]string{
		fmt.Sprintf("Intent detectado: %s", detected),
		"Conversación reciente:",
		transcript,
		"\nSnippets relevantes:",
		snippets,
		"\nMensaje del usuario:",
		query,
	}, "\n")
}

// promptForAttempt appends the strict-JSON self-correction on the final
// attempt only. Pure function of the attempt number.
func promptForAttempt(base string, attempt, maxAttempts int) string {
	if attempt == maxAttempts {
		return base + "\n\n" + strictJSONInstruction
	}
	return base
}
