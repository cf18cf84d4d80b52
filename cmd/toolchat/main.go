// Command toolchat runs the tool-calling chat backend.
//
// It serves POST /chat over an LLM provider (Google Gemini by default)
// wired to three tools: product catalog lookup, FAQ document search, and
// an external posts fetch. API keys come from the environment
// (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/toolchat-go/catalog"
	"github.com/dshills/toolchat-go/chat"
	"github.com/dshills/toolchat-go/chat/emit"
	"github.com/dshills/toolchat-go/chat/model"
	"github.com/dshills/toolchat-go/chat/model/anthropic"
	"github.com/dshills/toolchat-go/chat/model/google"
	"github.com/dshills/toolchat-go/chat/model/openai"
	"github.com/dshills/toolchat-go/chat/tool"
	"github.com/dshills/toolchat-go/config"
	"github.com/dshills/toolchat-go/faq"
	"github.com/dshills/toolchat-go/fetch"
	"github.com/dshills/toolchat-go/server"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.APIKey == "" {
		logger.Error("no API key set for provider", "provider", cfg.Provider)
		os.Exit(1)
	}

	store, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load product catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	logger.Info("product catalog loaded", "path", cfg.CatalogPath, "products", store.Len())

	index, err := faq.Load(cfg.FAQPath)
	if err != nil {
		logger.Error("failed to load FAQ document", "path", cfg.FAQPath, "error", err)
		os.Exit(1)
	}
	logger.Info("FAQ document loaded", "path", cfg.FAQPath, "segments", index.Len())

	registry, err := tool.NewRegistry(
		tool.NewCatalogTool(store),
		tool.NewFAQTool(index),
		tool.NewPostsTool(fetch.NewClient(cfg.PostsBaseURL, cfg.FetchTimeout)),
	)
	if err != nil {
		logger.Error("failed to build tool registry", "error", err)
		os.Exit(1)
	}

	chatModel := newChatModel(cfg)
	logger.Info("chat model configured", "provider", cfg.Provider, "model", cfg.Model)

	promRegistry := prometheus.NewRegistry()

	orch := chat.New(chatModel, registry,
		chat.WithEmitter(emit.NewLogEmitter(os.Stdout, cfg.LogFormat == "json")),
		chat.WithMetrics(chat.NewPrometheusMetrics(promRegistry)),
		chat.WithSystemPrompt(cfg.SystemPrompt),
	)

	srv := server.New(orch, server.Config{
		Addr:           cfg.Addr,
		AllowOrigin:    cfg.AllowOrigin,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
		Metrics:        promRegistry,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func newChatModel(cfg config.Config) model.ChatModel {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewChatModel(cfg.APIKey, cfg.Model)
	case config.ProviderAnthropic:
		return anthropic.NewChatModel(cfg.APIKey, cfg.Model)
	default:
		return google.NewChatModel(cfg.APIKey, cfg.Model)
	}
}
