package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_ytmeta/internal/engine"
)

// YouTube caption retrieval.
// Primary:  scrape watch page ytInitialPlayerResponse → caption tracks
// Fallback: ANDROID Innertube /player → caption tracks
// The selected track's raw timedtext payload is returned untouched;
// cleanup is the normalizer's job.

// ytInitialPlayerResponseMarker marks the start of the player response
// JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// fetchCaptions resolves the caption track list, picks the track for
// the target language, and downloads its raw payload. A missing track
// is KindCaptionsUnavailable; transport failures are KindDownload.
func fetchCaptions(ctx context.Context, videoID, lang string) (engine.CaptionPayload, error) {
	tracks, err := tracksViaPageScrape(ctx, videoID)
	if err != nil {
		slog.Warn("youtube: page scrape failed, trying player",
			slog.String("id", videoID), slog.Any("err", err))
		tracks, err = tracksViaPlayer(ctx, videoID)
	}
	if err != nil {
		return engine.CaptionPayload{}, engine.E(engine.KindDownload, "fetch caption track list for "+videoID, err)
	}

	track, ok := pickTrack(tracks, lang)
	if !ok {
		return engine.CaptionPayload{}, engine.Ef(engine.KindCaptionsUnavailable,
			"no %s caption track for %s", lang, videoID)
	}

	raw, err := fetchTrackPayload(ctx, track.BaseURL)
	if err != nil {
		return engine.CaptionPayload{}, engine.E(engine.KindDownload, "download caption track for "+videoID, err)
	}

	// pickTrack only returns asr tracks.
	return engine.CaptionPayload{Raw: raw, AutoGenerated: true}, nil
}

// pickTrack selects the auto-generated ("asr") track for the target
// language. Human-authored subtitles are never used, and neither is
// any other language: a video without an auto-generated track in the
// target language counts as captions-unavailable.
func pickTrack(tracks []captionTrack, lang string) (captionTrack, bool) {
	for _, t := range tracks {
		if t.Kind != "asr" {
			continue
		}
		if t.LanguageCode == lang || strings.HasPrefix(t.LanguageCode, lang+"-") {
			return t, true
		}
	}
	return captionTrack{}, false
}

// tracksViaPageScrape scrapes the watch page HTML and extracts the
// caption track list from ytInitialPlayerResponse. When plain HTTP is
// blocked and a fingerprint client is configured, retries through it.
func tracksViaPageScrape(ctx context.Context, videoID string) ([]captionTrack, error) {
	watchURL := ytWatchURL + videoID

	body, err := fetchWatchPage(ctx, watchURL)
	if err != nil {
		if engine.Cfg.BrowserClient == nil {
			return nil, err
		}
		slog.Debug("youtube: plain fetch blocked, using fingerprint client", slog.String("id", videoID))
		data, status, ferr := engine.Cfg.BrowserClient.Get(watchURL)
		if ferr != nil {
			return nil, fmt.Errorf("fingerprint fetch: %w", ferr)
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("fingerprint fetch: HTTP %d", status)
		}
		body = data
	}

	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		return nil, fmt.Errorf("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return nil, fmt.Errorf("failed to extract ytInitialPlayerResponse JSON")
	}
	return playerTracks(jsonData)
}

// fetchWatchPage GETs the watch page with linear-backoff retry.
func fetchWatchPage(ctx context.Context, watchURL string) ([]byte, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultDownloadRetry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
}

// tracksViaPlayer uses the ANDROID Innertube /player endpoint, which
// answers from IP ranges where the watch page serves a consent wall.
func tracksViaPlayer(ctx context.Context, videoID string) ([]captionTrack, error) {
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

	resp, err := engine.RetryHTTP(ctx, engine.DefaultDownloadRetry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ytPlayerURL+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 3*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read player response: %w", err)
	}
	return playerTracks(data)
}

// playerTracks decodes a player response and returns its caption
// tracks. A response without captions yields an empty list, not an
// error — absence of captions is a user-facing condition, not a
// transport failure.
func playerTracks(data []byte) ([]captionTrack, error) {
	var playerResp innertubePlayerResp
	if err := json.Unmarshal(data, &playerResp); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}
	if playerResp.Captions == nil {
		if ps := playerResp.PlayabilityStatus; ps != nil && ps.Reason != "" {
			slog.Debug("youtube: no captions", slog.String("reason", ps.Reason))
		}
		return nil, nil
	}
	return playerResp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

// fetchTrackPayload downloads the raw timedtext payload for a track.
func fetchTrackPayload(ctx context.Context, baseURL string) (string, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultDownloadRetry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
