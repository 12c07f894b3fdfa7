package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camaral/assistant/chat"
	"github.com/camaral/assistant/config"
	"github.com/camaral/assistant/intent"
	"github.com/camaral/assistant/knowledge"
	"github.com/camaral/assistant/llm"
	"github.com/camaral/assistant/rag"
	"github.com/camaral/assistant/retrieval"
)

type stubLLM struct {
	reply string
}

func (s *stubLLM) GenerateJSON(_ context.Context, _ []llm.Message) (string, error) {
	return s.reply, nil
}

var _ llm.Client = (*stubLLM)(nil)

func newTestServer(t *testing.T, debug bool, client llm.Client) *Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "camaral_pricing.md"), []byte(
		"# Precios\n\nEl plan Starter cuesta $99/mes.\n"), 0o644))

	cfg := config.Config{
		Debug:        debug,
		KnowledgeDir: dir,
		PricingFile:  "camaral_pricing.md",
		Links: config.Links{
			Pricing:  "https://camaral.ai/precios",
			BookDemo: "https://camaral.ai/demo",
			UseCases: "https://camaral.ai/casos-de-uso",
		},
	}

	store := knowledge.NewStore(dir, zerolog.Nop())
	svc := chat.NewService(
		retrieval.New(store, cfg.PricingFile, zerolog.Nop()),
		intent.NewClassifier(nil, zerolog.Nop()),
		rag.NewGenerator(client, zerolog.Nop()),
		cfg.Links,
		zerolog.Nop(),
	)
	return New(cfg, svc, zerolog.Nop())
}

func postChat(t *testing.T, server *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, false, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}

func TestChatEndpoint(t *testing.T) {
	client := &stubLLM{reply: `{"answer":"El plan Starter cuesta $99/mes.","follow_up":null,"confidence":"high","should_offer_demo":false}`}
	server := newTestServer(t, false, client)

	rec := postChat(t, server, `{"messages":[{"role":"user","content":"¿cuánto cuesta?"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AssistantText string          `json:"assistantText"`
		Intent        string          `json:"intent"`
		Sources       []any           `json:"sources"`
		CtaChips      []any           `json:"ctaChips"`
		Debug         json.RawMessage `json:"debug"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "El plan Starter cuesta $99/mes.", resp.AssistantText)
	assert.Equal(t, "pricing", resp.Intent)
	assert.NotEmpty(t, resp.Sources)
	assert.NotEmpty(t, resp.CtaChips)
	assert.Nil(t, resp.Debug, "debug block must be absent unless enabled")
}

func TestChatEndpointDebugBlock(t *testing.T) {
	server := newTestServer(t, true, nil)

	rec := postChat(t, server, `{"messages":[{"role":"user","content":"hola"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Debug *struct {
			UsedFallback   bool   `json:"usedFallback"`
			FallbackReason string `json:"fallbackReason"`
		} `json:"debug"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Debug)
	assert.True(t, resp.Debug.UsedFallback)
	assert.Equal(t, "missing_config", resp.Debug.FallbackReason)
}

func TestChatEndpointMalformedBodyStillResponds(t *testing.T) {
	server := newTestServer(t, false, nil)

	rec := postChat(t, server, `{"messages": "not-a-list"`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AssistantText string `json:"assistantText"`
		Intent        string `json:"intent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AssistantText)
	assert.Equal(t, "general", resp.Intent)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	server := newTestServer(t, false, nil)
	server.cfg.HTTPAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server kept running after cancellation")
	}
}
