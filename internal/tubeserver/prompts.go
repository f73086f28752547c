package tubeserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCP prompts: pre-filled message templates that bundle a video's metadata
// and transcript so the caller's own model can summarize or answer. Unlike
// the summarize/query tools, no completion happens server-side.

const summarizePromptTemplate = `Summarize this YouTube video based on its transcript:

%s

Transcript:
%s

Please provide:
1. A concise 2-3 sentence summary
2. 3-5 key points in bullet form
3. Any technical details mentioned
4. The main takeaways from this video`

const queryPromptTemplate = `Answer this question based ONLY on the content of this YouTube video:

%s

Question: %s

Transcript:
%s

If the transcript doesn't contain information to answer this question, please state that clearly.`

func attachPrompts(server *mcp.Server, p Providers) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "youtube/summarize",
		Description: "Build a summarization prompt from a video's metadata and transcript",
		Arguments: []*mcp.PromptArgument{
			{Name: "videoId", Description: "YouTube video ID", Required: true},
		},
	}, summarizePromptHandler(p))

	server.AddPrompt(&mcp.Prompt{
		Name:        "youtube/query",
		Description: "Build a question-answering prompt from a video's metadata and transcript",
		Arguments: []*mcp.PromptArgument{
			{Name: "videoId", Description: "YouTube video ID", Required: true},
			{Name: "query", Description: "Question about the video content", Required: true},
		},
	}, queryPromptHandler(p))
}

// promptInputs gathers the two blocks every prompt interpolates.
func promptInputs(ctx context.Context, p Providers, videoID string) (meta, transcript string, err error) {
	transcript, err = readTranscriptResource(ctx, p, videoID)
	if err != nil {
		return "", "", err
	}
	meta, err = readVideoResource(ctx, p, videoID)
	if err != nil {
		return "", "", err
	}
	return meta, transcript, nil
}

func buildSummarizePrompt(ctx context.Context, p Providers, videoID string) (string, error) {
	meta, transcript, err := promptInputs(ctx, p, videoID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(summarizePromptTemplate, meta, transcript), nil
}

func buildQueryPrompt(ctx context.Context, p Providers, videoID, query string) (string, error) {
	meta, transcript, err := promptInputs(ctx, p, videoID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(queryPromptTemplate, meta, query, transcript), nil
}

func summarizePromptHandler(p Providers) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		videoID := req.Params.Arguments["videoId"]
		if videoID == "" {
			return nil, engine.E(engine.KindInvalidArguments, "missing required argument %q", "videoId")
		}
		text, err := buildSummarizePrompt(ctx, p, videoID)
		if err != nil {
			return nil, errors.New(engine.Redact(err.Error()))
		}
		return promptResult("Summarize a YouTube video from its transcript", text), nil
	}
}

func queryPromptHandler(p Providers) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		videoID := req.Params.Arguments["videoId"]
		query := req.Params.Arguments["query"]
		if videoID == "" {
			return nil, engine.E(engine.KindInvalidArguments, "missing required argument %q", "videoId")
		}
		if query == "" {
			return nil, engine.E(engine.KindInvalidArguments, "missing required argument %q", "query")
		}
		text, err := buildQueryPrompt(ctx, p, videoID, query)
		if err != nil {
			return nil, errors.New(engine.Redact(err.Error()))
		}
		return promptResult("Answer a question about a YouTube video from its transcript", text), nil
	}
}

func promptResult(desc, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: desc,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}
