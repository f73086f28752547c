package engine

import (
	"errors"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified", E(KindTranscriptUnavailable, "no captions"), KindTranscriptUnavailable},
		{"wrapped cause", Wrap(KindModelError, errors.New("429"), "model call failed"), KindModelError},
		{"double wrapped", Wrap(KindUpstreamError, E(KindInvalidArguments, "bad"), "outer"), KindUpstreamError},
		{"plain error", errors.New("dial tcp: timeout"), KindUpstreamError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindUpstreamError, errors.New("connection refused"), "youtube request failed")
	if got, want := err.Error(), "youtube request failed: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, err.Err) {
		t.Error("wrapped cause must survive errors.Is")
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			`GET https://www.googleapis.com/youtube/v3/videos?id=abc&key=AIzaSySECRET&part=statistics: 400`,
			`GET https://www.googleapis.com/youtube/v3/videos?id=abc&key=REDACTED&part=statistics: 400`,
		},
		{
			`request to /search?key=SECRET failed`,
			`request to /search?key=REDACTED failed`,
		},
		{"no credentials here", "no credentials here"},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
