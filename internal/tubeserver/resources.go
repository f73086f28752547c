package tubeserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/sources"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCP resources: read-only URIs alongside the tool surface. A transcript
// resource serves timestamped lines, a video resource serves a metadata
// sheet.
const (
	transcriptResourcePrefix = "youtube://transcripts/"
	videoResourcePrefix      = "youtube://video/"
)

func attachResources(server *mcp.Server, p Providers) {
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "youtube-transcript",
		Description: "Transcript of a YouTube video as timestamped lines",
		MIMEType:    "text/plain",
		URITemplate: transcriptResourcePrefix + "{videoId}",
	}, resourceHandler(p, transcriptResourcePrefix, readTranscriptResource))

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "youtube-video",
		Description: "Metadata sheet for a YouTube video: title, channel, stats, duration",
		MIMEType:    "text/plain",
		URITemplate: videoResourcePrefix + "{videoId}",
	}, resourceHandler(p, videoResourcePrefix, readVideoResource))
}

// videoIDFromURI extracts the trailing video ID from a resource URI.
func videoIDFromURI(uri, prefix string) (string, error) {
	id := strings.TrimPrefix(uri, prefix)
	if id == "" || id == uri || strings.Contains(id, "/") {
		return "", engine.E(engine.KindInvalidArguments, "resource URI %q does not name a video", uri)
	}
	return id, nil
}

func resourceHandler(p Providers, prefix string, read func(ctx context.Context, p Providers, videoID string) (string, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		videoID, err := videoIDFromURI(req.Params.URI, prefix)
		if err != nil {
			return nil, err
		}
		text, err := read(ctx, p, videoID)
		if err != nil {
			return nil, errors.New(engine.Redact(err.Error()))
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     text,
			}},
		}, nil
	}
}

func readTranscriptResource(ctx context.Context, p Providers, videoID string) (string, error) {
	segs, _, err := p.Transcripts.FetchTranscript(ctx, videoID, prefLangs(""))
	if err != nil {
		return "", err
	}
	return sources.TimestampedLines(segs), nil
}

func readVideoResource(ctx context.Context, p Providers, videoID string) (string, error) {
	v, err := p.Videos.Video(ctx, videoID)
	if err != nil {
		return "", err
	}
	return formatVideoMeta(v), nil
}

func formatVideoMeta(v *sources.Video) string {
	return fmt.Sprintf(`Title: %s
Channel: %s
Published: %s
Description: %s
Duration: %s
Views: %s
Likes: %s
Comments: %s`,
		v.Title, v.ChannelTitle, v.PublishedAt, v.Description,
		v.Duration, v.Views, v.Likes, v.Comments)
}
