package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// YouTube transcript fetching.
// Primary:  ANDROID Innertube /player → captionTracks → timedtext XML
// Fallback: watch page scrape → ytInitialPlayerResponse → same tracks

// needsPoToken reports whether a caption track URL requires a PoToken
// (browser-only). Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickTrack selects a usable caption track for the given language
// preferences: manual track in preference order first, then auto-generated
// in preference order, then the provider's first usable track.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	return usable[0], true
}

// parseTimedText parses timedtext XML into ordered segments, preserving
// the provider's timestamps. Lines reduced to empty text after tag and
// entity cleanup are dropped.
func parseTimedText(body []byte) ([]Segment, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}
	segs := make([]Segment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := engine.CleanHTML(line.Text)
		if text == "" {
			continue
		}
		segs = append(segs, Segment{Start: line.Start, Duration: line.Dur, Text: text})
	}
	return segs, nil
}

// fetchTimedText fetches a caption track URL and parses it into segments.
func (c *Client) fetchTimedText(ctx context.Context, baseURL string) ([]Segment, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return c.cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, err
	}
	return parseTimedText(body)
}

// playerCaptionTracks asks the ANDROID Innertube /player endpoint for the
// video's caption tracks. Works from non-blocked IP addresses.
func (c *Client) playerCaptionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webBase+ytPlayerPath+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return c.cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()

	var playerResp innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&playerResp); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return tracksFromPlayerResp(&playerResp)
}

// tracksFromPlayerResp extracts caption tracks from a player response,
// classifying missing captions as TranscriptUnavailable.
func tracksFromPlayerResp(playerResp *innertubePlayerResp) ([]captionTrack, error) {
	if playerResp.Captions == nil {
		reason := ""
		if playerResp.PlayabilityStatus != nil {
			reason = playerResp.PlayabilityStatus.Reason
		}
		if reason != "" {
			return nil, engine.E(engine.KindTranscriptUnavailable, "captions unavailable: %s", reason)
		}
		return nil, engine.E(engine.KindTranscriptUnavailable, "no captions in player response")
	}
	tracks := playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, engine.E(engine.KindTranscriptUnavailable, "no caption tracks")
	}
	return tracks, nil
}

// ytInitialPlayerResponseMarker marks the start of the player response JSON
// in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// scrapeCaptionTracks fetches the YouTube watch page and extracts caption
// tracks from the embedded ytInitialPlayerResponse. Works from any IP.
func (c *Client) scrapeCaptionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	watchURL := c.webBase + "/watch?v=" + videoID

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return c.cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		return nil, engine.E(engine.KindTranscriptUnavailable, "ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, fmt.Errorf("failed to extract ytInitialPlayerResponse JSON")
	}

	var playerResp innertubePlayerResp
	if err := json.Unmarshal(jsonData, &playerResp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return tracksFromPlayerResp(&playerResp)
}

// FetchTranscript fetches the transcript for a YouTube video as ordered,
// timestamped segments. Language preferences are tried in order; with no
// match the provider's default/auto track is used. The returned language is
// the selected track's code, which may differ from every preference.
func (c *Client) FetchTranscript(ctx context.Context, videoID string, langs []string) ([]Segment, string, error) {
	engine.IncrYouTubeTranscript()
	if len(langs) == 0 {
		langs = []string{"en"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	tracks, err := c.playerCaptionTracks(ctx, videoID)
	if err != nil {
		slog.Warn("youtube: player captions failed, scraping watch page",
			slog.String("id", videoID), slog.Any("err", err))
		tracks, err = c.scrapeCaptionTracks(ctx, videoID)
		if err != nil {
			return nil, "", err
		}
	}

	track, ok := pickTrack(tracks, langs)
	if !ok {
		return nil, "", engine.E(engine.KindTranscriptUnavailable, "all caption tracks require PoToken")
	}

	segs, err := c.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, "", err
	}
	if len(segs) == 0 {
		return nil, "", engine.E(engine.KindTranscriptUnavailable, "empty transcript")
	}
	return segs, track.LanguageCode, nil
}
