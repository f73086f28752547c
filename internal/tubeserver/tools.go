package tubeserver

import (
	"context"

	"github.com/anatolykoptev/go_tube/internal/engine/sources"
)

// TranscriptFetcher retrieves a video's caption track as ordered segments,
// reporting which track language was actually selected.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string, langs []string) ([]sources.Segment, string, error)
}

// VideoAPI covers the metadata provider: search, comments, statistics, and
// single-video lookup.
type VideoAPI interface {
	Search(ctx context.Context, query string, limit int) ([]sources.Video, error)
	Comments(ctx context.Context, videoID string, limit int) ([]sources.Comment, error)
	Likes(ctx context.Context, videoID string) (int64, error)
	Video(ctx context.Context, videoID string) (*sources.Video, error)
}

// Completer is the generative upstream behind summarize and query.
type Completer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
	Answer(ctx context.Context, transcript, question string) (string, error)
}

// Providers bundles the upstream adapters the tool handlers call into.
// Model is the generative model name echoed in summarize/query payloads.
type Providers struct {
	Transcripts TranscriptFetcher
	Videos      VideoAPI
	LLM         Completer
	Model       string
}

// --- tool payloads ---

type TranscriptOutput struct {
	VideoID  string            `json:"videoId"`
	Language string            `json:"language,omitempty"`
	Segments []sources.Segment `json:"segments"`
	Text     string            `json:"text"`
}

type SummaryOutput struct {
	VideoID string `json:"videoId"`
	Summary string `json:"summary"`
	Model   string `json:"model,omitempty"`
}

type AnswerOutput struct {
	VideoID  string `json:"videoId"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Model    string `json:"model,omitempty"`
}

type SearchOutput struct {
	Query        string          `json:"query"`
	Videos       []sources.Video `json:"videos"`
	TotalResults int             `json:"totalResults"`
}

type CommentsOutput struct {
	VideoID    string            `json:"videoId"`
	Comments   []sources.Comment `json:"comments"`
	TotalCount int               `json:"totalCount"`
}

// prefLangs maps the wire protocol's single optional language onto the
// adapter's ordered preference list, keeping English as the final fallback.
func prefLangs(language string) []string {
	if language == "" {
		return []string{"en"}
	}
	if language == "en" {
		return []string{"en"}
	}
	return []string{language, "en"}
}

// NewRegistry builds the static tool table over the given providers.
func NewRegistry(p Providers) *Registry {
	r := newEmptyRegistry()
	for _, def := range []*ToolDef{
		toolGetTranscript(p),
		toolSummarize(p),
		toolQuery(p),
		toolSearch(p),
		toolGetComments(p),
		toolGetLikes(p),
	} {
		if err := r.Register(def); err != nil {
			panic(err) // static table, duplicate names are a bug
		}
	}
	return r
}

// fetchFlattened fetches a transcript and joins it into prompt-ready text.
func fetchFlattened(ctx context.Context, p Providers, videoID string) (string, error) {
	segs, _, err := p.Transcripts.FetchTranscript(ctx, videoID, prefLangs(""))
	if err != nil {
		return "", err
	}
	return sources.JoinSegments(segs), nil
}

func toolGetTranscript(p Providers) *ToolDef {
	return &ToolDef{
		Name:        "get-transcript",
		Description: "Retrieve the transcript/subtitles for a YouTube video as timestamped segments plus flattened text. Optionally select a caption language; falls back to the video's default track.",
		Fields: []Field{
			{Name: "videoId", Type: TypeString, Required: true, Desc: "YouTube video ID (11-character string from the video URL)"},
			{Name: "language", Type: TypeString, Desc: "Preferred caption language code (default: en)"},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			videoID := args.Str("videoId")
			segs, lang, err := p.Transcripts.FetchTranscript(ctx, videoID, prefLangs(args.Str("language")))
			if err != nil {
				return nil, err
			}
			return TranscriptOutput{
				VideoID:  videoID,
				Language: lang,
				Segments: segs,
				Text:     sources.JoinSegments(segs),
			}, nil
		},
	}
}

func toolSummarize(p Providers) *ToolDef {
	return &ToolDef{
		Name:        "summarize",
		Description: "Fetch a YouTube video's transcript and produce a concise summary of its content.",
		Fields: []Field{
			{Name: "videoId", Type: TypeString, Required: true, Desc: "YouTube video ID to summarize"},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			videoID := args.Str("videoId")
			transcript, err := fetchFlattened(ctx, p, videoID)
			if err != nil {
				return nil, err
			}
			summary, err := p.LLM.Summarize(ctx, transcript)
			if err != nil {
				return nil, err
			}
			return SummaryOutput{VideoID: videoID, Summary: summary, Model: p.Model}, nil
		},
	}
}

func toolQuery(p Providers) *ToolDef {
	return &ToolDef{
		Name:        "query",
		Description: "Answer a natural-language question about a YouTube video using only its transcript.",
		Fields: []Field{
			{Name: "videoId", Type: TypeString, Required: true, Desc: "YouTube video ID to query"},
			{Name: "question", Type: TypeString, Required: true, Desc: "Question about the video content"},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			videoID := args.Str("videoId")
			question := args.Str("question")
			transcript, err := fetchFlattened(ctx, p, videoID)
			if err != nil {
				return nil, err
			}
			answer, err := p.LLM.Answer(ctx, transcript, question)
			if err != nil {
				return nil, err
			}
			return AnswerOutput{VideoID: videoID, Question: question, Answer: answer, Model: p.Model}, nil
		},
	}
}

func toolSearch(p Providers) *ToolDef {
	return &ToolDef{
		Name:        "search",
		Description: "Search YouTube for videos matching a query. Returns video metadata including channel, publish time, view/like/comment counts, and duration.",
		Fields: []Field{
			{Name: "queryText", Type: TypeString, Required: true, Desc: "Search terms"},
			{Name: "maxResults", Type: TypeInteger, Desc: "Maximum results to return (default 5, capped at 50)"},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			query := args.Str("queryText")
			videos, err := p.Videos.Search(ctx, query, args.Int("maxResults"))
			if err != nil {
				return nil, err
			}
			return SearchOutput{Query: query, Videos: videos, TotalResults: len(videos)}, nil
		},
	}
}

func toolGetComments(p Providers) *ToolDef {
	return &ToolDef{
		Name:        "get-comments",
		Description: "Retrieve top-level comments from a YouTube video's comment section, with author, text, and like counts. First page only.",
		Fields: []Field{
			{Name: "videoId", Type: TypeString, Required: true, Desc: "YouTube video ID to get comments from"},
			{Name: "maxResults", Type: TypeInteger, Desc: "Maximum comments to return (default 20, capped at 100)"},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			videoID := args.Str("videoId")
			comments, err := p.Videos.Comments(ctx, videoID, args.Int("maxResults"))
			if err != nil {
				return nil, err
			}
			return CommentsOutput{VideoID: videoID, Comments: comments, TotalCount: len(comments)}, nil
		},
	}
}

func toolGetLikes(p Providers) *ToolDef {
	return &ToolDef{
		Name:        "get-likes",
		Description: "Retrieve the current like count for a YouTube video. Returns a bare integer.",
		Fields: []Field{
			{Name: "videoId", Type: TypeString, Required: true, Desc: "YouTube video ID to get likes for"},
		},
		Handler: func(ctx context.Context, args Args) (any, error) {
			return p.Videos.Likes(ctx, args.Str("videoId"))
		},
	}
}
