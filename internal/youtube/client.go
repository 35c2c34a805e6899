// Package youtube reads video captions straight from YouTube: the watch page
// player response first, the Innertube ANDROID player endpoint second.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"yt2blog/internal/model"
	"yt2blog/internal/transcript"
)

var errNoPlayerResponse = errors.New("ytInitialPlayerResponse not found in watch page")

// Client is a transcript.CaptionSource backed by YouTube's web endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	langs   []string
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLanguages sets the language codes to look for, most preferred first.
func WithLanguages(langs ...string) Option {
	return func(c *Client) {
		if len(langs) > 0 {
			c.langs = append([]string(nil), langs...)
		}
	}
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Client with English captions preferred by default.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		langs:   []string{"en"},
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewHTTPClient builds an HTTP client with the given timeout, routed through
// proxy when it is non-empty.
func NewHTTPClient(timeout time.Duration, proxy string) (*http.Client, error) {
	if proxy == "" {
		return &http.Client{Timeout: timeout}, nil
	}
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
	}, nil
}

// Languages returns the preferred language codes.
func (c *Client) Languages() []string { return append([]string(nil), c.langs...) }

// Captions implements transcript.CaptionSource.
func (c *Client) Captions(ctx context.Context, videoID string) ([]model.Caption, error) {
	player, err := c.playerFromWatchPage(ctx, videoID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Warn("youtube: page scrape failed, trying player",
			slog.String("id", videoID), slog.Any("err", err))
		player, err = c.playerFromInnertube(ctx, videoID)
		if err != nil {
			return nil, err
		}
	}

	tracks, err := captionTracks(player)
	if err != nil {
		return nil, err
	}
	track, ok := pickTrack(tracks, c.langs)
	if !ok {
		return nil, fmt.Errorf("%w (wanted %s, have %s)",
			transcript.ErrNoTranscriptFound, strings.Join(c.langs, ","), strings.Join(trackLanguages(tracks), ","))
	}
	c.log.Debug("youtube: caption track",
		slog.String("id", videoID), slog.String("lang", track.LanguageCode), slog.Bool("generated", track.generated()))
	return c.fetchTimedText(ctx, track.BaseURL)
}

func (c *Client) playerFromWatchPage(ctx context.Context, videoID string) (*playerResponse, error) {
	watchURL := c.baseURL + "/watch?v=" + url.QueryEscape(videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 6*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(playerResponseMarker))
	if idx < 0 {
		return nil, errNoPlayerResponse
	}
	raw := extractJSON(body[idx+len(playerResponseMarker):])
	if raw == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var player playerResponse
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &player, nil
}

func (c *Client) playerFromInnertube(ctx context.Context, videoID string) (*playerResponse, error) {
	reqBody, err := json.Marshal(playerRequest{
		VideoID: videoID,
		Context: playerContext{
			Client: playerClient{
				ClientName:        "ANDROID",
				ClientVersion:     androidVersion,
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

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+playerPath+"?prettyPrint=false", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", androidVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("android innertube: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return &player, nil
}

// captionTracks classifies a player response into tracks or a caption error.
func captionTracks(p *playerResponse) ([]captionTrack, error) {
	if p.Captions == nil {
		if st := p.PlayabilityStatus; st != nil && st.Status != "" && st.Status != "OK" {
			reason := st.Reason
			if reason == "" {
				reason = st.Status
			}
			return nil, fmt.Errorf("video unplayable: %s", reason)
		}
		return nil, transcript.ErrTranscriptsDisabled
	}
	tracks := p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, transcript.ErrTranscriptsDisabled
	}
	return tracks, nil
}

// pickTrack prefers a manual track in any wanted language, in preference
// order, then a generated one. Language codes must match exactly.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	for _, generated := range []bool{false, true} {
		for _, lang := range langs {
			for _, t := range tracks {
				if t.LanguageCode == lang && t.generated() == generated {
					return t, true
				}
			}
		}
	}
	return captionTrack{}, false
}

func trackLanguages(tracks []captionTrack) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		lang := t.LanguageCode
		if t.generated() {
			lang += "(auto)"
		}
		out = append(out, lang)
	}
	return out
}
