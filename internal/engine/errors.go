package engine

import (
	"errors"
	"fmt"
	"regexp"
)

// Kind classifies a tool-level failure. Every error that crosses the
// dispatcher boundary maps to exactly one kind.
type Kind string

const (
	KindUnknownTool           Kind = "UnknownTool"
	KindInvalidArguments      Kind = "InvalidArguments"
	KindTranscriptUnavailable Kind = "TranscriptUnavailable"
	KindModelError            Kind = "ModelError"
	KindUpstreamError         Kind = "UpstreamError"
	KindConfigurationMissing  Kind = "ConfigurationMissing"
)

// Error is a classified engine error. Adapters return these so the
// dispatcher can shape a uniform error result without inspecting strings.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error from a format string.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error, keeping it in the chain for errors.Is.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Unclassified errors
// (network failures, decode errors, deadlines) count as upstream failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstreamError
}

var apiKeyRe = regexp.MustCompile(`(key=)[^&\s"]+`)

// Redact strips API key query values from a message. Upstream errors often
// carry the request URL; the key must never reach a tool result.
func Redact(s string) string {
	return apiKeyRe.ReplaceAllString(s, "${1}REDACTED")
}
