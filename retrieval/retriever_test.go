package retrieval

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camaral/assistant/knowledge"
)

const pricingFile = "camaral_pricing.md"

func newFixtureRetriever(t *testing.T) *Retriever {
	t.Helper()
	dir := t.TempDir()

	docs := map[string]string{
		"camaral_overview.md": "# Qué es Camaral\n\n" +
			"Camaral es un asistente comercial que atiende consultas de producto.\n\n" +
			"Se integra con tu sitio y guía a los visitantes.\n",
		pricingFile: "# Precios de Camaral\n\n" +
			"El plan Starter cuesta $99/mes e incluye el asistente completo.\n\n" +
			"Los planes anuales tienen descuento.\n",
		"camaral_use_cases.md": "# Casos de uso\n\n" +
			"Equipos de ventas usan Camaral para calificar leads.\n\n" +
			"Soporte lo usa para resolver dudas frecuentes.\n",
	}
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	store := knowledge.NewStore(dir, zerolog.Nop())
	return New(store, pricingFile, zerolog.Nop())
}

func TestRetrieveRanksByScore(t *testing.T) {
	r := newFixtureRetriever(t)

	snippets, err := r.Retrieve(context.Background(), "¿cuánto cuesta el plan?", 5)
	require.NoError(t, err)
	require.NotEmpty(t, snippets)

	// Highest-scoring paragraph mentions both "cuesta" and "plan".
	assert.Equal(t, pricingFile, snippets[0].File)
	assert.Contains(t, snippets[0].Excerpt, "$99/mes")
}

func TestRetrieveRespectsLimit(t *testing.T) {
	r := newFixtureRetriever(t)

	snippets, err := r.Retrieve(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Len(t, snippets, 2)
}

func TestRetrieveEmptyQueryStillReturnsContent(t *testing.T) {
	r := newFixtureRetriever(t)

	snippets, err := r.Retrieve(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, snippets)
}

func TestRetrieveZeroLimit(t *testing.T) {
	r := newFixtureRetriever(t)

	snippets, err := r.Retrieve(context.Background(), "camaral", 0)
	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestRetrieveMissingDirectoryErrors(t *testing.T) {
	store := knowledge.NewStore(filepath.Join(t.TempDir(), "missing"), zerolog.Nop())
	r := New(store, pricingFile, zerolog.Nop())

	_, err := r.Retrieve(context.Background(), "camaral", 5)
	assert.Error(t, err)
}

func TestEnsurePricingPrependsPricingSnippets(t *testing.T) {
	r := newFixtureRetriever(t)

	base := []Snippet{
		{Title: "Casos de uso", Excerpt: "Equipos de ventas...", File: "camaral_use_cases.md"},
		{Title: "Qué es Camaral", Excerpt: "Camaral es...", File: "camaral_overview.md"},
	}

	augmented := r.EnsurePricing(context.Background(), base, 3)
	require.NotEmpty(t, augmented)
	assert.LessOrEqual(t, len(augmented), 3)
	assert.Equal(t, pricingFile, augmented[0].File)
	assert.Contains(t, augmented[0].Excerpt, "$")
}

func TestEnsurePricingNoOpWhenAlreadyPresent(t *testing.T) {
	r := newFixtureRetriever(t)

	base := []Snippet{{Title: "Precios de Camaral", Excerpt: "El plan Starter...", File: pricingFile}}
	augmented := r.EnsurePricing(context.Background(), base, 5)
	assert.Equal(t, base, augmented)
}

func TestEnsurePricingMissingFileLeavesInputUnchanged(t *testing.T) {
	dir := t.TempDir()
	store := knowledge.NewStore(dir, zerolog.Nop())
	r := New(store, "camaral_pricing.md", zerolog.Nop())

	base := []Snippet{{Title: "a", Excerpt: "b", File: "c.md"}}
	assert.Equal(t, base, r.EnsurePricing(context.Background(), base, 5))
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	assert.Equal(t, []string{"cuanto", "cuesta", "plan"}, Tokenize("¿Cuánto cuesta el plan?"))
	assert.Empty(t, Tokenize("¡¡¡"))
}
