package tubeserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranscripts struct {
	segs     []sources.Segment
	lang     string
	err      error
	calls    int
	gotLangs []string
}

func (s *stubTranscripts) FetchTranscript(_ context.Context, _ string, langs []string) ([]sources.Segment, string, error) {
	s.calls++
	s.gotLangs = langs
	return s.segs, s.lang, s.err
}

type stubVideos struct {
	videos   []sources.Video
	video    *sources.Video
	comments []sources.Comment
	likes    int64
	err      error
	calls    int
}

func (s *stubVideos) Search(_ context.Context, _ string, _ int) ([]sources.Video, error) {
	s.calls++
	return s.videos, s.err
}

func (s *stubVideos) Comments(_ context.Context, _ string, _ int) ([]sources.Comment, error) {
	s.calls++
	return s.comments, s.err
}

func (s *stubVideos) Likes(_ context.Context, _ string) (int64, error) {
	s.calls++
	return s.likes, s.err
}

func (s *stubVideos) Video(_ context.Context, _ string) (*sources.Video, error) {
	s.calls++
	return s.video, s.err
}

type stubLLM struct {
	summary string
	answer  string
	err     error
	calls   int
}

func (s *stubLLM) Summarize(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.summary, s.err
}

func (s *stubLLM) Answer(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.answer, s.err
}

type fixture struct {
	transcripts *stubTranscripts
	videos      *stubVideos
	llm         *stubLLM
	dispatcher  *Dispatcher
}

func newFixture() *fixture {
	f := &fixture{
		transcripts: &stubTranscripts{},
		videos:      &stubVideos{},
		llm:         &stubLLM{},
	}
	reg := NewRegistry(Providers{
		Transcripts: f.transcripts,
		Videos:      f.videos,
		LLM:         f.llm,
		Model:       "gemini-2.0-flash",
	})
	f.dispatcher = NewDispatcher(reg, time.Minute)
	return f
}

func (f *fixture) dispatch(name string, args map[string]any) ToolResult {
	return f.dispatcher.Dispatch(context.Background(), ToolCall{Name: name, Arguments: args})
}

func TestDispatchUnknownTool(t *testing.T) {
	f := newFixture()
	res := f.dispatch("get-subtitles", map[string]any{"videoId": "abc"})

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, string(engine.KindUnknownTool), res.ErrorKind)
	assert.Zero(t, f.transcripts.calls, "no handler may run for an unknown tool")
	assert.Zero(t, f.videos.calls)
}

func TestDispatchMissingRequiredArgument(t *testing.T) {
	f := newFixture()
	res := f.dispatch("get-transcript", map[string]any{"language": "en"})

	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, string(engine.KindInvalidArguments), res.ErrorKind)
	assert.Contains(t, res.ErrorDetail, "videoId", "error must name the offending field")
	assert.Zero(t, f.transcripts.calls, "validation must run before any upstream call")
}

func TestDispatchWrongArgumentType(t *testing.T) {
	f := newFixture()

	res := f.dispatch("search", map[string]any{"queryText": "go talks", "maxResults": "five"})
	assert.Equal(t, string(engine.KindInvalidArguments), res.ErrorKind)
	assert.Contains(t, res.ErrorDetail, "maxResults")
	assert.Zero(t, f.videos.calls)

	// Fractional JSON numbers are not integers.
	res = f.dispatch("search", map[string]any{"queryText": "go talks", "maxResults": 2.5})
	assert.Equal(t, string(engine.KindInvalidArguments), res.ErrorKind)
}

func TestDispatchIntegerFromJSONNumber(t *testing.T) {
	f := newFixture()

	// JSON decoding hands integers to the dispatcher as float64.
	res := f.dispatch("search", map[string]any{"queryText": "go talks", "maxResults": float64(3)})
	require.Equal(t, StatusSuccess, res.Status, res.ErrorDetail)
	assert.Equal(t, 1, f.videos.calls)
}

func TestDispatchGetLikes(t *testing.T) {
	f := newFixture()
	f.videos.likes = 42

	res := f.dispatch("get-likes", map[string]any{"videoId": "abc"})
	require.Equal(t, StatusSuccess, res.Status, res.ErrorDetail)
	assert.Equal(t, int64(42), res.Payload)
}

func TestDispatchTranscriptRoundTrip(t *testing.T) {
	f := newFixture()
	f.transcripts.segs = []sources.Segment{
		{Start: 0, Duration: 5, Text: "hello"},
		{Start: 5, Duration: 5, Text: "world"},
	}
	f.transcripts.lang = "en"

	res := f.dispatch("get-transcript", map[string]any{"videoId": "abc"})
	require.Equal(t, StatusSuccess, res.Status, res.ErrorDetail)

	out, ok := res.Payload.(TranscriptOutput)
	require.True(t, ok)
	assert.Equal(t, "hello world", out.Text)
	assert.Len(t, out.Segments, 2)
	assert.Equal(t, "en", out.Language)
	assert.Equal(t, []string{"en"}, f.transcripts.gotLangs)
}

func TestDispatchTranscriptLanguagePreference(t *testing.T) {
	f := newFixture()
	f.transcripts.segs = []sources.Segment{{Text: "bonjour"}}
	f.transcripts.lang = "fr"

	res := f.dispatch("get-transcript", map[string]any{"videoId": "abc", "language": "fr"})
	require.Equal(t, StatusSuccess, res.Status, res.ErrorDetail)
	assert.Equal(t, []string{"fr", "en"}, f.transcripts.gotLangs)
}

func TestDispatchTranscriptReportsSelectedLanguage(t *testing.T) {
	f := newFixture()
	f.transcripts.segs = []sources.Segment{{Text: "hallo"}}
	f.transcripts.lang = "de"

	// Requested fr, provider only had de: the payload reports the track
	// that was actually served.
	res := f.dispatch("get-transcript", map[string]any{"videoId": "abc", "language": "fr"})
	require.Equal(t, StatusSuccess, res.Status, res.ErrorDetail)

	out, ok := res.Payload.(TranscriptOutput)
	require.True(t, ok)
	assert.Equal(t, "de", out.Language)
}

func TestDispatchSummarize(t *testing.T) {
	f := newFixture()
	f.transcripts.segs = []sources.Segment{{Text: "the talk"}}
	f.llm.summary = "a summary"

	res := f.dispatch("summarize", map[string]any{"videoId": "abc"})
	require.Equal(t, StatusSuccess, res.Status, res.ErrorDetail)

	out, ok := res.Payload.(SummaryOutput)
	require.True(t, ok)
	assert.Equal(t, "a summary", out.Summary)
	assert.Equal(t, "gemini-2.0-flash", out.Model)
	assert.Equal(t, 1, f.transcripts.calls)
	assert.Equal(t, 1, f.llm.calls)
}

func TestDispatchQueryModelError(t *testing.T) {
	f := newFixture()
	f.transcripts.segs = []sources.Segment{{Text: "the talk"}}
	f.llm.err = engine.E(engine.KindModelError, "quota exceeded")

	res := f.dispatch("query", map[string]any{"videoId": "abc", "question": "what?"})
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, string(engine.KindModelError), res.ErrorKind)
	assert.Contains(t, res.ErrorDetail, "quota exceeded")
}

func TestDispatchTranscriptUnavailable(t *testing.T) {
	f := newFixture()
	f.transcripts.err = engine.E(engine.KindTranscriptUnavailable, "captions disabled")

	res := f.dispatch("get-transcript", map[string]any{"videoId": "abc"})
	assert.Equal(t, string(engine.KindTranscriptUnavailable), res.ErrorKind)
}

func TestDispatchUpstreamFailureThenRecovery(t *testing.T) {
	f := newFixture()
	f.videos.err = errors.New("Get \"https://example\": context deadline exceeded")

	res := f.dispatch("get-likes", map[string]any{"videoId": "abc"})
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, string(engine.KindUpstreamError), res.ErrorKind)

	// A failed call must not poison the dispatcher for subsequent calls.
	f.videos.err = nil
	f.videos.likes = 7
	res = f.dispatch("get-likes", map[string]any{"videoId": "def"})
	require.Equal(t, StatusSuccess, res.Status, res.ErrorDetail)
	assert.Equal(t, int64(7), res.Payload)
}

func TestDispatchRedactsCredentials(t *testing.T) {
	f := newFixture()
	f.videos.err = errors.New(`youtube data API 400: https://example.com/videos?id=abc&key=SECRET-VALUE failed`)

	res := f.dispatch("get-likes", map[string]any{"videoId": "abc"})
	assert.Equal(t, StatusError, res.Status)
	assert.NotContains(t, res.ErrorDetail, "SECRET-VALUE")
	assert.Contains(t, res.ErrorDetail, "key=REDACTED")
}

func TestDispatchGetComments(t *testing.T) {
	f := newFixture()
	f.videos.comments = []sources.Comment{
		{Author: "a", Text: "first", Likes: 3},
		{Author: "b", Text: "second"},
	}

	res := f.dispatch("get-comments", map[string]any{"videoId": "abc", "maxResults": float64(10)})
	require.Equal(t, StatusSuccess, res.Status, res.ErrorDetail)

	out, ok := res.Payload.(CommentsOutput)
	require.True(t, ok)
	assert.Equal(t, 2, out.TotalCount)
	assert.Equal(t, "first", out.Comments[0].Text)
}
