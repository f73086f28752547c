package sources

import "testing"

func TestTimestampedLines(t *testing.T) {
	segs := []Segment{
		{Start: 0.08, Duration: 4.2, Text: "hello"},
		{Start: 4.28, Duration: 3.12, Text: "world"},
	}
	want := "[0.08-4.28] hello\n[4.28-7.40] world"
	if got := TimestampedLines(segs); got != want {
		t.Errorf("TimestampedLines = %q, want %q", got, want)
	}
	if got := TimestampedLines(nil); got != "" {
		t.Errorf("TimestampedLines(nil) = %q, want empty", got)
	}
}

func TestJoinSegments(t *testing.T) {
	segs := []Segment{
		{Text: "hello"},
		{Text: ""},
		{Text: "world"},
	}
	if got := JoinSegments(segs); got != "hello world" {
		t.Errorf("JoinSegments = %q, want %q", got, "hello world")
	}
	if got := JoinSegments(nil); got != "" {
		t.Errorf("JoinSegments(nil) = %q, want empty", got)
	}
}
