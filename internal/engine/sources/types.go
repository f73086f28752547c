package sources

import (
	"fmt"
	"strings"
)

// Video is one search hit, enriched with metadata from the /videos endpoint.
// Count fields stay strings — that is how the Data API serves them.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Description  string `json:"description,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	ChannelTitle string `json:"channelTitle,omitempty"`
	ChannelID    string `json:"channelId,omitempty"`
	PublishedAt  string `json:"publishedAt,omitempty"`
	Views        string `json:"views,omitempty"`
	Likes        string `json:"likes,omitempty"`
	Comments     string `json:"comments,omitempty"`
	Duration     string `json:"duration,omitempty"` // ISO 8601, e.g. PT4M13S
}

// Comment is a top-level comment from a video's comment section.
type Comment struct {
	Author      string `json:"author"`
	Text        string `json:"text"`
	Likes       int64  `json:"likes"`
	PublishedAt string `json:"publishedAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// Segment is one timestamped fragment of a video's caption track.
// Start and Duration are seconds.
type Segment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// TimestampedLines renders segments one per line as "[start-end] text".
// This is the transcript's resource form; tools use JoinSegments instead.
func TimestampedLines(segs []Segment) string {
	var sb strings.Builder
	for i, s := range segs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "[%.2f-%.2f] %s", s.Start, s.Start+s.Duration, s.Text)
	}
	return sb.String()
}

// JoinSegments flattens ordered segments into a single text, one space
// between segments. This join policy is part of the tool contract.
func JoinSegments(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}
