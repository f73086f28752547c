package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	Dispatches                atomic.Int64
	DispatchErrors            atomic.Int64
	LLMCalls                  atomic.Int64
	LLMErrors                 atomic.Int64
	YouTubeSearchRequests     atomic.Int64
	YouTubeTranscriptRequests atomic.Int64
	YouTubeCommentRequests    atomic.Int64
	YouTubeStatsRequests      atomic.Int64
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"dispatches":                  metrics.Dispatches.Load(),
		"dispatch_errors":             metrics.DispatchErrors.Load(),
		"llm_calls":                   metrics.LLMCalls.Load(),
		"llm_errors":                  metrics.LLMErrors.Load(),
		"youtube_search_requests":     metrics.YouTubeSearchRequests.Load(),
		"youtube_transcript_requests": metrics.YouTubeTranscriptRequests.Load(),
		"youtube_comment_requests":    metrics.YouTubeCommentRequests.Load(),
		"youtube_stats_requests":      metrics.YouTubeStatsRequests.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"dispatches", "dispatch_errors",
		"llm_calls", "llm_errors",
		"youtube_search_requests", "youtube_transcript_requests",
		"youtube_comment_requests", "youtube_stats_requests",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the tubeserver and sources packages.
func IncrDispatches()     { metrics.Dispatches.Add(1) }
func IncrDispatchErrors() { metrics.DispatchErrors.Add(1) }
func IncrLLMCalls()       { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()      { metrics.LLMErrors.Add(1) }

func IncrYouTubeSearch()     { metrics.YouTubeSearchRequests.Add(1) }
func IncrYouTubeTranscript() { metrics.YouTubeTranscriptRequests.Add(1) }
func IncrYouTubeComments()   { metrics.YouTubeCommentRequests.Add(1) }
func IncrYouTubeStats()      { metrics.YouTubeStatsRequests.Add(1) }
