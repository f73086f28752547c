// go_tube — YouTube analysis MCP server.
//
// Exposes six MCP tools: get-transcript, summarize, query, search,
// get-comments, get-likes. Transcripts come from YouTube's caption
// endpoints, metadata from the Data API v3, and summarization/Q&A from a
// Gemini model behind its OpenAI-compatible endpoint.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
	"github.com/anatolykoptev/go_tube/internal/tubeserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		slog.Error("configuration invalid", slog.Any("error", err))
		os.Exit(1)
	}

	cfg.LLMClient = llm.NewClient(cfg.LLMAPIBase, cfg.LLMAPIKey, cfg.LLMModel,
		llm.WithMaxTokens(cfg.LLMMaxTokens),
		llm.WithTemperature(cfg.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)

	yt := sources.NewClient(cfg)
	providers := tubeserver.Providers{
		Transcripts: yt,
		Videos:      yt,
		LLM:         engine.NewLLM(cfg),
		Model:       cfg.LLMModel,
	}
	registry := tubeserver.NewRegistry(providers)
	dispatcher := tubeserver.NewDispatcher(registry, cfg.DispatchTimeout)

	slog.Info("starting go_tube",
		slog.String("port", mcpPort),
		slog.String("model", cfg.LLMModel),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_tube",
		Version: version,
	}, nil)

	tubeserver.Attach(server, registry, dispatcher, providers)
	slog.Info("tools registered", slog.Int("count", len(registry.Names())))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_tube",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func loadConfig() *engine.Config {
	return &engine.Config{
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		LLMAPIKey:             env.Str("GEMINI_API_KEY", ""),
		LLMAPIBase:            env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:              env.Str("LLM_MODEL", "gemini-2.0-flash"),
		LLMTemperature:        env.Float("LLM_TEMPERATURE", 0.2),
		LLMMaxTokens:          env.Int("LLM_MAX_TOKENS", 8192),
		MaxTranscriptChars:    env.Int("MAX_TRANSCRIPT_CHARS", 8000),
		FetchTimeout:          env.Duration("FETCH_TIMEOUT", 15*time.Second),
		DispatchTimeout:       env.Duration("DISPATCH_TIMEOUT", 60*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}
