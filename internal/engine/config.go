package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, built once in main and passed by
// reference into adapters. Read-only after startup — safe for concurrent
// dispatches without synchronization.
type Config struct {
	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string // tried when the primary key hits quota (403)
	LLMAPIKey             string
	LLMAPIBase            string
	LLMModel              string
	LLMTemperature        float64
	LLMMaxTokens          int
	MaxTranscriptChars    int // head-truncation budget for transcript text sent to the LLM
	FetchTimeout          time.Duration
	DispatchTimeout       time.Duration // per-tool-call deadline, 0 = none
	HTTPClient            *http.Client
	LLMClient             *llm.Client
}

// Validate checks that both upstream credentials are present. A missing
// credential is fatal at startup — the server must not come up and then
// fail every call.
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return E(KindConfigurationMissing, "YOUTUBE_API_KEY is not set")
	}
	if c.LLMAPIKey == "" {
		return E(KindConfigurationMissing, "GEMINI_API_KEY is not set")
	}
	return nil
}
