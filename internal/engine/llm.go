package engine

import (
	"context"
	"fmt"
	"strings"
)

// LLM is the generative adapter. Summarization and Q&A are the same
// underlying chat-completion call with different prompt templates.
type LLM struct {
	cfg *Config
}

// NewLLM returns a generative adapter bound to the given configuration.
func NewLLM(cfg *Config) *LLM {
	return &LLM{cfg: cfg}
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// complete sends a single-shot prompt using the configured model.
func (l *LLM) complete(ctx context.Context, prompt string) (string, error) {
	IncrLLMCalls()
	resp, err := l.cfg.LLMClient.Complete(ctx, "", prompt)
	if err != nil {
		IncrLLMErrors()
		return "", Wrap(KindModelError, err, "model call failed")
	}
	text := stripFences(resp)
	if text == "" {
		IncrLLMErrors()
		return "", E(KindModelError, "empty response from model")
	}
	return text, nil
}

// clip head-truncates transcript text to the configured character budget.
// Deterministic and byte-exact, so a given transcript always produces the
// same prompt.
func (l *LLM) clip(transcript string) string {
	if l.cfg.MaxTranscriptChars <= 0 {
		return transcript
	}
	return Truncate(transcript, l.cfg.MaxTranscriptChars)
}

// Summarize produces a short summary of a video transcript.
func (l *LLM) Summarize(ctx context.Context, transcript string) (string, error) {
	return l.complete(ctx, fmt.Sprintf(summarizePrompt, l.clip(transcript)))
}

// Answer answers a question using only the given transcript.
func (l *LLM) Answer(ctx context.Context, transcript, question string) (string, error) {
	return l.complete(ctx, fmt.Sprintf(answerPrompt, l.clip(transcript), question))
}
