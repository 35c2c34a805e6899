package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt2blog/internal/transcript"
)

const sampleTimedText = `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
	`<text start="0.0" dur="1.5">Hello</text>` +
	`<text start="1.5" dur="2.0">it&amp;#39;s &lt;font color=&quot;#E5E5E5&quot;&gt;the&lt;/font&gt; world</text>` +
	`<text start="3.5" dur="1.0"></text>` +
	`<text start="4.5" dur="1.0">bye</text>` +
	`</transcript>`

// fakeYouTube serves a watch page (or not), the player endpoint and timedtext.
type fakeYouTube struct {
	watchPlayer  string // JSON embedded in the watch page; empty = no marker
	innertube    string // JSON body for /youtubei/v1/player
	timedText    map[string]string
	playerCalls  int
	timedTextHit []string
}

func (f *fakeYouTube) handler(baseURL func() string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		if f.watchPlayer == "" {
			fmt.Fprint(w, "<html><body>consent page</body></html>")
			return
		}
		fmt.Fprintf(w, "<html><script>var ytInitialPlayerResponse = %s;var meta = {};</script></html>",
			strings.ReplaceAll(f.watchPlayer, "BASE", baseURL()))
	})
	mux.HandleFunc(playerPath, func(w http.ResponseWriter, r *http.Request) {
		f.playerCalls++
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		var req playerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Context.Client.ClientName != "ANDROID" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, strings.ReplaceAll(f.innertube, "BASE", baseURL()))
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		f.timedTextHit = append(f.timedTextHit, lang)
		body, ok := f.timedText[lang]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeYouTube, opts ...Option) *Client {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(f.handler(func() string { return srv.URL }))
	t.Cleanup(srv.Close)
	base := []Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(append(base, opts...)...)
}

func tracksJSON(tracks ...string) string {
	return `{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[` +
		strings.Join(tracks, ",") + `]}}}`
}

func track(lang, kind string) string {
	return fmt.Sprintf(`{"baseUrl":"BASE/api/timedtext?v=abc&lang=%s&fmt=srv3","languageCode":"%s","kind":"%s"}`, lang, lang, kind)
}

func TestCaptions_FromWatchPage(t *testing.T) {
	f := &fakeYouTube{
		watchPlayer: tracksJSON(track("en", "")),
		timedText:   map[string]string{"en": sampleTimedText},
	}
	c := newTestClient(t, f)

	caps, err := c.Captions(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, caps, 3)
	assert.Equal(t, "Hello", caps[0].Text)
	assert.Equal(t, "it's the world", caps[1].Text)
	assert.Equal(t, "bye", caps[2].Text)
	assert.InDelta(t, 1.5, caps[1].Start, 1e-9)
	assert.InDelta(t, 2.0, caps[1].Duration, 1e-9)
	assert.Equal(t, 0, f.playerCalls, "player endpoint should not be needed")
}

func TestCaptions_FallsBackToInnertube(t *testing.T) {
	f := &fakeYouTube{
		innertube: tracksJSON(track("en", "asr")),
		timedText: map[string]string{"en": sampleTimedText},
	}
	c := newTestClient(t, f)

	caps, err := c.Captions(context.Background(), "abc")
	require.NoError(t, err)
	assert.Len(t, caps, 3)
	assert.Equal(t, 1, f.playerCalls)
}

func TestCaptions_PrefersManualOverGenerated(t *testing.T) {
	f := &fakeYouTube{
		watchPlayer: tracksJSON(track("en", "asr"), track("de", ""), track("fr", "")),
		timedText: map[string]string{
			"en": sampleTimedText,
			"de": `<transcript><text start="0" dur="1">Hallo</text></transcript>`,
		},
	}
	c := newTestClient(t, f, WithLanguages("en", "de"))

	caps, err := c.Captions(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, caps, 1)
	assert.Equal(t, "Hallo", caps[0].Text)
	assert.Equal(t, []string{"de"}, f.timedTextHit)
}

func TestCaptions_Errors(t *testing.T) {
	tests := []struct {
		name     string
		player   string
		langs    []string
		sentinel error
		contains string
	}{
		{
			name:     "no captions object",
			player:   `{"playabilityStatus":{"status":"OK"}}`,
			sentinel: transcript.ErrTranscriptsDisabled,
		},
		{
			name:     "empty track list",
			player:   tracksJSON(),
			sentinel: transcript.ErrTranscriptsDisabled,
		},
		{
			name:     "language not available",
			player:   tracksJSON(track("fr", ""), track("es", "asr")),
			langs:    []string{"en"},
			sentinel: transcript.ErrNoTranscriptFound,
		},
		{
			name:     "region variant is not an exact match",
			player:   tracksJSON(track("en-GB", "")),
			langs:    []string{"en"},
			sentinel: transcript.ErrNoTranscriptFound,
		},
		{
			name:     "unplayable",
			player:   `{"playabilityStatus":{"status":"ERROR","reason":"Video unavailable"}}`,
			contains: "Video unavailable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeYouTube{watchPlayer: tt.player}
			c := newTestClient(t, f, WithLanguages(tt.langs...))

			_, err := c.Captions(context.Background(), "abc")
			require.Error(t, err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
				return
			}
			assert.NotErrorIs(t, err, transcript.ErrTranscriptsDisabled)
			assert.NotErrorIs(t, err, transcript.ErrNoTranscriptFound)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestCaptions_TimedTextFailureIsGeneric(t *testing.T) {
	f := &fakeYouTube{
		watchPlayer: tracksJSON(track("en", "")),
		timedText:   map[string]string{},
	}
	c := newTestClient(t, f)

	_, err := c.Captions(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Equal(t, "An error occurred: "+err.Error(), transcript.Message(err))
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: `{"a":1};var x`, want: `{"a":1}`},
		{name: "nested", in: `{"a":{"b":{}}} tail`, want: `{"a":{"b":{}}}`},
		{name: "brace in string", in: `{"a":"}{"} tail`, want: `{"a":"}{"}`},
		{name: "escaped quote", in: `{"a":"x\"}"} tail`, want: `{"a":"x\"}"}`},
		{name: "escaped backslash", in: `{"a":"x\\"} tail`, want: `{"a":"x\\"}`},
		{name: "not an object", in: `[1,2]`, want: ""},
		{name: "unterminated", in: `{"a":1`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(extractJSON([]byte(tt.in))))
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	h, err := NewHTTPClient(0, "")
	require.NoError(t, err)
	assert.Nil(t, h.Transport)

	h, err = NewHTTPClient(0, "http://proxy.local:3128")
	require.NoError(t, err)
	tr, ok := h.Transport.(*http.Transport)
	require.True(t, ok)
	req := httptest.NewRequest(http.MethodGet, "https://www.youtube.com/watch?v=abc", nil)
	u, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy.local:3128", u.Host)

	_, err = NewHTTPClient(0, "://bad")
	assert.Error(t, err)
}
