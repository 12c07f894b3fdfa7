// Package api exposes the chat pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/camaral/assistant/chat"
	"github.com/camaral/assistant/config"
	"github.com/camaral/assistant/cta"
	"github.com/camaral/assistant/intent"
	"github.com/camaral/assistant/retrieval"
)

// requestTimeout bounds one whole request; the pipeline itself carries no
// timeouts, so this is the only cancellation in the system.
const requestTimeout = 30 * time.Second

// shutdownTimeout bounds draining of in-flight requests on shutdown.
const shutdownTimeout = 10 * time.Second

// Server exposes HTTP handlers for the assistant.
type Server struct {
	cfg    config.Config
	svc    *chat.Service
	logger zerolog.Logger
	engine *gin.Engine
}

type messageResponse struct {
	Message string `json:"message"`
}

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
	Locale   string         `json:"locale"`
}

type chatDebug struct {
	UsedFallback   bool   `json:"usedFallback"`
	FallbackReason string `json:"fallbackReason,omitempty"`
}

type chatResponse struct {
	AssistantText string              `json:"assistantText"`
	Sources       []retrieval.Snippet `json:"sources"`
	Intent        intent.Intent       `json:"intent"`
	CtaChips      []cta.Chip          `json:"ctaChips"`
	Debug         *chatDebug          `json:"debug,omitempty"`
}

// New constructs a Server around the chat service.
func New(cfg config.Config, svc *chat.Service, logger zerolog.Logger) *Server {
	s := &Server{cfg: cfg, svc: svc, logger: logger}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/healthz", s.handleHealth)
	engine.POST("/v1/chat", s.handleChat)
	return engine
}

// Handler returns the HTTP handler for serving or testing.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.HTTPAddr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, messageResponse{Message: "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	// A malformed body degrades to an empty history; the pipeline still
	// produces a safe response rather than a 4xx.
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warn().Err(err).Msg("malformed chat request body")
		req = chatRequest{}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp := s.svc.Respond(ctx, chat.Request{
		Messages: req.Messages,
		Locale:   req.Locale,
	})

	out := chatResponse{
		AssistantText: resp.AssistantText,
		Sources:       resp.Sources,
		Intent:        resp.Intent,
		CtaChips:      resp.CtaChips,
	}
	if s.cfg.Debug {
		out.Debug = &chatDebug{
			UsedFallback:   resp.Diagnostics.UsedFallback,
			FallbackReason: string(resp.Diagnostics.FallbackReason),
		}
	}

	c.JSON(http.StatusOK, out)
}
