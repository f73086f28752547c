package engine

import (
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	cfg := &Config{YouTubeAPIKey: "yt", LLMAPIKey: "llm"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg = &Config{LLMAPIKey: "llm"}
	err := cfg.Validate()
	if err == nil || KindOf(err) != KindConfigurationMissing {
		t.Fatalf("want ConfigurationMissing for missing YouTube key, got %v", err)
	}
	if !strings.Contains(err.Error(), "YOUTUBE_API_KEY") {
		t.Errorf("error must name the variable: %v", err)
	}

	cfg = &Config{YouTubeAPIKey: "yt"}
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("want error naming GEMINI_API_KEY, got %v", err)
	}
}

func TestFormatMetrics(t *testing.T) {
	out := FormatMetrics()
	for _, key := range []string{"dispatches", "llm_calls", "youtube_transcript_requests"} {
		if !strings.Contains(out, key) {
			t.Errorf("metrics output missing %q:\n%s", key, out)
		}
	}
}
