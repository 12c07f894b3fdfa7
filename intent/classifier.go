package intent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/camaral/assistant/llm"
	"github.com/camaral/assistant/textutil"
)

const classifySystemPrompt = "Clasifica el mensaje del usuario en exactamente una de estas categorías: " +
	"how_it_works, pricing, demo, use_cases, objections, general. " +
	`Responde con JSON estricto: {"intent": "<categoria>"}.`

// Classifier combines the rule pass with an optional model-based second
// pass. The model pass is advisory: it only runs when the rules yield
// General, and any failure or unknown label leaves the rule result standing.
type Classifier struct {
	model  llm.Client
	logger zerolog.Logger
}

// NewClassifier builds a classifier; model may be nil to disable the second
// pass entirely.
func NewClassifier(model llm.Client, logger zerolog.Logger) *Classifier {
	return &Classifier{model: model, logger: logger}
}

func (c *Classifier) Classify(ctx context.Context, query string) Intent {
	ruleIntent := Detect(query)
	if ruleIntent != General || c.model == nil || strings.TrimSpace(query) == "" {
		return ruleIntent
	}

	if modelIntent, ok := c.classifyWithModel(ctx, query); ok {
		c.logger.Debug().
			Str("rule_intent", string(ruleIntent)).
			Str("model_intent", string(modelIntent)).
			Msg("intent refined by model")
		return modelIntent
	}
	return ruleIntent
}

func (c *Classifier) classifyWithModel(ctx context.Context, query string) (Intent, bool) {
	raw, err := c.model.GenerateJSON(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: classifySystemPrompt},
		{Role: llm.RoleUser, Content: query},
	})
	if err != nil {
		c.logger.Warn().
			Str("error", textutil.Redact(err.Error())).
			Msg("model intent classification failed")
		return General, false
	}

	label, ok := parseIntentPayload(raw)
	if !ok {
		c.logger.Warn().Msg("model intent classification returned unknown label")
		return General, false
	}
	return label, true
}

func parseIntentPayload(raw string) (Intent, bool) {
	var payload struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return General, false
	}
	return Parse(payload.Intent)
}
