package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/anatolykoptev/go_tube/internal/engine"
)

// YouTube Data API v3 — search, comment threads, and video statistics.

const ytDataAPIBase = "https://www.googleapis.com/youtube/v3"

// Client issues calls against YouTube's public APIs. Stateless beyond the
// injected configuration; safe for concurrent use.
type Client struct {
	cfg     *engine.Config
	apiBase string
	webBase string
}

// NewClient returns a YouTube client bound to the given configuration.
func NewClient(cfg *engine.Config) *Client {
	return &Client{cfg: cfg, apiBase: ytDataAPIBase, webBase: ytWebBase}
}

// --- Data API response types ---

type ytSearchResp struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type ytVideosResp struct {
	Items []ytVideoItem `json:"items"`
}

type ytVideoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelTitle string `json:"channelTitle"`
		ChannelID    string `json:"channelId"`
		PublishedAt  string `json:"publishedAt"`
		Thumbnails   struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

func videoFromItem(item ytVideoItem) Video {
	return Video{
		ID:           item.ID,
		Title:        item.Snippet.Title,
		URL:          "https://www.youtube.com/watch?v=" + item.ID,
		Description:  item.Snippet.Description,
		Thumbnail:    item.Snippet.Thumbnails.High.URL,
		ChannelTitle: item.Snippet.ChannelTitle,
		ChannelID:    item.Snippet.ChannelID,
		PublishedAt:  item.Snippet.PublishedAt,
		Views:        item.Statistics.ViewCount,
		Likes:        item.Statistics.LikeCount,
		Comments:     item.Statistics.CommentCount,
		Duration:     item.ContentDetails.Duration,
	}
}

type ytCommentThreadsResp struct {
	Items []struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					AuthorDisplayName string `json:"authorDisplayName"`
					TextDisplay       string `json:"textDisplay"`
					LikeCount         int64  `json:"likeCount"`
					PublishedAt       string `json:"publishedAt"`
					UpdatedAt         string `json:"updatedAt"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytErrorResp struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// keys returns the configured API keys in fallback order.
func (c *Client) keys() []string {
	keys := []string{c.cfg.YouTubeAPIKey}
	if c.cfg.YouTubeAPIKeyFallback != "" {
		keys = append(keys, c.cfg.YouTubeAPIKeyFallback)
	}
	return keys
}

// apiGet issues a Data API GET and decodes the JSON response into out.
// Only a 403 on the primary key (quota, key restrictions) moves on to the
// fallback key; transport and decode failures already went through
// RetryHTTP and must not double the upstream call count.
func (c *Client) apiGet(ctx context.Context, path string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	var lastErr error
	for _, key := range c.keys() {
		status, err := c.doAPIGet(ctx, path, params, key, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if status != http.StatusForbidden {
			break
		}
		slog.Debug("youtube data API key rejected, trying fallback", slog.Any("err", err))
	}
	return lastErr
}

// doAPIGet performs one keyed request. The returned status is the HTTP
// status code, or 0 when the request never produced a response.
func (c *Client) doAPIGet(ctx context.Context, path string, params url.Values, apiKey string, out any) (int, error) {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("key", apiKey)
	apiURL := c.apiBase + path + "?" + q.Encode()

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return c.cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return 0, fmt.Errorf("youtube data API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read youtube data API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ytErrorResp
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return resp.StatusCode, engine.E(engine.KindUpstreamError, "YouTube API error: %s", apiErr.Error.Message)
		}
		return resp.StatusCode, engine.E(engine.KindUpstreamError, "youtube data API %d: %s", resp.StatusCode, engine.Redact(engine.Truncate(string(body), 256)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode youtube data API: %w", err)
	}
	return resp.StatusCode, nil
}

// Search finds videos matching the query, then enriches each hit with
// snippet, statistics, and duration via a second /videos call — the search
// endpoint alone returns no counts. First page only.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Video, error) {
	engine.IncrYouTubeSearch()
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(limit))

	var sr ytSearchResp
	if err := c.apiGet(ctx, "/search", params, &sr); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(sr.Items))
	for _, item := range sr.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return []Video{}, nil
	}

	params = url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var vr ytVideosResp
	if err := c.apiGet(ctx, "/videos", params, &vr); err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(vr.Items))
	for _, item := range vr.Items {
		videos = append(videos, videoFromItem(item))
	}
	return videos, nil
}

// Video fetches full metadata for one video: snippet, statistics, duration.
func (c *Client) Video(ctx context.Context, videoID string) (*Video, error) {
	engine.IncrYouTubeStats()

	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", videoID)

	var vr ytVideosResp
	if err := c.apiGet(ctx, "/videos", params, &vr); err != nil {
		return nil, err
	}
	if len(vr.Items) == 0 {
		return nil, engine.E(engine.KindUpstreamError, "video %s not found", videoID)
	}
	v := videoFromItem(vr.Items[0])
	return &v, nil
}

// Comments fetches top-level comments for a video, first page only.
// textDisplay arrives as HTML; it is converted to markdown so links and
// formatting survive, with plain tag-stripping as the fallback.
func (c *Client) Comments(ctx context.Context, videoID string, limit int) ([]Comment, error) {
	engine.IncrYouTubeComments()
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100 // Data API page cap
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", strconv.Itoa(limit))

	var cr ytCommentThreadsResp
	if err := c.apiGet(ctx, "/commentThreads", params, &cr); err != nil {
		return nil, err
	}

	comments := make([]Comment, 0, len(cr.Items))
	for _, item := range cr.Items {
		sn := item.Snippet.TopLevelComment.Snippet
		text, err := htmltomarkdown.ConvertString(sn.TextDisplay)
		if err != nil {
			text = engine.CleanHTML(sn.TextDisplay)
		}
		comments = append(comments, Comment{
			Author:      sn.AuthorDisplayName,
			Text:        strings.TrimSpace(text),
			Likes:       sn.LikeCount,
			PublishedAt: sn.PublishedAt,
			UpdatedAt:   sn.UpdatedAt,
		})
	}
	return comments, nil
}

// Likes returns the current like count for a video. A video with hidden
// likes reports zero, matching the API's omitted likeCount.
func (c *Client) Likes(ctx context.Context, videoID string) (int64, error) {
	engine.IncrYouTubeStats()

	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", videoID)

	var vr ytVideosResp
	if err := c.apiGet(ctx, "/videos", params, &vr); err != nil {
		return 0, err
	}
	if len(vr.Items) == 0 {
		return 0, engine.E(engine.KindUpstreamError, "video %s not found", videoID)
	}
	if vr.Items[0].Statistics.LikeCount == "" {
		return 0, nil
	}
	likes, err := strconv.ParseInt(vr.Items[0].Statistics.LikeCount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse likeCount: %w", err)
	}
	return likes, nil
}
