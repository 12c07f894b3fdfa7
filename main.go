package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/camaral/assistant/api"
	"github.com/camaral/assistant/chat"
	"github.com/camaral/assistant/config"
	"github.com/camaral/assistant/intent"
	"github.com/camaral/assistant/knowledge"
	"github.com/camaral/assistant/llm"
	"github.com/camaral/assistant/rag"
	"github.com/camaral/assistant/retrieval"
)

func main() {
	// .env is optional; environment variables alone are fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	logger := newLogger(cfg)

	switch os.Args[1] {
	case "serve":
		serveCmd(cfg, logger, os.Args[2:])
	case "ask":
		askCmd(cfg, logger, os.Args[2:])
	default:
		logger.Error().Str("command", os.Args[1]).Msg("unknown command")
		printUsage()
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

func buildService(cfg config.Config, logger zerolog.Logger) (*chat.Service, *knowledge.Store) {
	store := knowledge.NewStore(cfg.KnowledgeDir, logger)
	retriever := retrieval.New(store, cfg.PricingFile, logger)

	generatorClient, err := llm.NewClient(llm.Options{
		Provider:      cfg.LLM.Provider,
		Model:         cfg.LLM.Model,
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
		OllamaHost:    cfg.OllamaHost,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		// Misconfiguration is not fatal: the pipeline serves its
		// deterministic fallback until credentials appear.
		logger.Warn().Err(err).Msg("generation backend unavailable, serving fallbacks")
		generatorClient = nil
	}

	var intentClient llm.Client
	if cfg.IntentModel != "" {
		intentClient, err = llm.NewClient(llm.Options{
			Provider:      cfg.LLM.Provider,
			Model:         cfg.IntentModel,
			Temperature:   0,
			MaxTokens:     50,
			OllamaHost:    cfg.OllamaHost,
			OpenAIAPIKey:  cfg.OpenAIAPIKey,
			OpenAIBaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("intent model unavailable, rule classification only")
			intentClient = nil
		}
	}

	svc := chat.NewService(
		retriever,
		intent.NewClassifier(intentClient, logger),
		rag.NewGenerator(generatorClient, logger),
		cfg.Links,
		logger,
	)
	return svc, store
}

func serveCmd(cfg config.Config, logger zerolog.Logger, args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", cfg.HTTPAddr, "listen address")
	watch := flags.Bool("watch", false, "cache knowledge parses and invalidate on file changes")
	if err := flags.Parse(args); err != nil {
		logger.Fatal().Err(err).Msg("parse serve flags")
	}
	cfg.HTTPAddr = *addr

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, store := buildService(cfg, logger)

	if *watch {
		go func() {
			if err := store.Watch(ctx); err != nil {
				logger.Warn().Err(err).Msg("knowledge watcher stopped")
			}
		}()
	}

	server := api.New(cfg, svc, logger)
	if err := server.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
}

func askCmd(cfg config.Config, logger zerolog.Logger, args []string) {
	flags := flag.NewFlagSet("ask", flag.ExitOnError)
	question := flags.String("question", "", "question to ask the assistant")
	if err := flags.Parse(args); err != nil {
		logger.Fatal().Err(err).Msg("parse ask flags")
	}

	if strings.TrimSpace(*question) == "" {
		fmt.Print("Enter your question: ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			*question = scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			logger.Fatal().Err(err).Msg("read question")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, _ := buildService(cfg, logger)
	resp := svc.Respond(ctx, chat.Request{
		Messages: []chat.Message{{Role: chat.RoleUser, Content: *question}},
	})

	fmt.Println(resp.AssistantText)
	if len(resp.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for idx, source := range resp.Sources {
			fmt.Printf("%d. %s (%s)\n", idx+1, source.Title, source.File)
		}
	}
	if len(resp.CtaChips) > 0 {
		fmt.Println()
		fmt.Println("Suggested actions:")
		for _, chip := range resp.CtaChips {
			if chip.Href != "" {
				fmt.Printf("- %s: %s\n", chip.Label, chip.Href)
			} else {
				fmt.Printf("- %s\n", chip.Label)
			}
		}
	}
}

func printUsage() {
	fmt.Println("Usage: assistant <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  serve    Run the HTTP chat API (use --watch to cache knowledge parses)")
	fmt.Println("  ask      Ask a one-off question from the terminal")
}
