package cta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camaral/assistant/config"
	"github.com/camaral/assistant/intent"
)

var testLinks = config.Links{
	Pricing:  "https://camaral.ai/precios",
	BookDemo: "https://camaral.ai/demo",
	UseCases: "https://camaral.ai/casos-de-uso",
}

func TestForIntentIsPure(t *testing.T) {
	for _, detected := range []intent.Intent{
		intent.HowItWorks, intent.Pricing, intent.Demo,
		intent.UseCases, intent.Objections, intent.General,
	} {
		first := ForIntent(detected, testLinks)
		second := ForIntent(detected, testLinks)
		assert.Equal(t, first, second, "intent %s", detected)
		assert.NotEmpty(t, first, "intent %s", detected)
	}
}

func TestForIntentPricingHasPrimaryPricingLink(t *testing.T) {
	chips := ForIntent(intent.Pricing, testLinks)

	require.NotEmpty(t, chips)
	assert.Equal(t, "Ver precios", chips[0].Label)
	assert.Equal(t, KindPrimary, chips[0].Kind)
	assert.Equal(t, testLinks.Pricing, chips[0].Href)
}

func TestForIntentDemoPrefillsComposer(t *testing.T) {
	chips := ForIntent(intent.Demo, testLinks)

	require.Len(t, chips, 2)
	assert.Equal(t, KindInput, chips[1].Kind)
	assert.NotEmpty(t, chips[1].Message)
	assert.Empty(t, chips[1].Href)
}

func TestForIntentGeneralOffersOrientationChips(t *testing.T) {
	chips := ForIntent(intent.General, testLinks)
	assert.Len(t, chips, 4)
}
