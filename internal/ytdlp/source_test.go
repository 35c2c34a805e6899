package ytdlp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yt2blog/internal/progress"
	"yt2blog/internal/transcript"
	"yt2blog/internal/util"
)

const sampleJSON3 = `{"events":[
 {"tStartMs":0,"dDurationMs":1500,"segs":[{"utf8":"Hello"}]},
 {"tStartMs":1500,"dDurationMs":500,"segs":[{"utf8":"\n"}]},
 {"tStartMs":2000,"dDurationMs":2000,"segs":[{"utf8":"big "},{"utf8":"world"}]},
 {"tStartMs":4000}
]}`

// fakeRunner simulates yt-dlp: metadata on --dump-json, a json3 file otherwise.
type fakeRunner struct {
	info    string
	subs    string
	failSub bool
	calls   [][]string
}

func (f *fakeRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.calls = append(f.calls, spec.Args)
	if spec.Args[0] == "--dump-json" {
		if spec.StderrLine != nil {
			spec.StderrLine("WARNING: nothing to see")
		}
		return util.CmdResult{Stdout: []byte(f.info)}, nil
	}
	if f.failSub {
		return util.CmdResult{Code: 1}, errors.New("exit 1")
	}
	lang := argAfter(spec.Args, "--sub-langs")
	out := argAfter(spec.Args, "-o")
	dst := strings.Replace(out, "%(id)s.%(ext)s", "abc."+lang+".json3", 1)
	if spec.StdoutLine != nil {
		spec.StdoutLine("[info] Writing video subtitles to: " + dst)
	}
	if err := os.WriteFile(dst, []byte(f.subs), 0o644); err != nil {
		return util.CmdResult{Code: 1}, err
	}
	return util.CmdResult{}, nil
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestCaptions_ManualTrack(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	r := &fakeRunner{
		info: `{"id":"abc","subtitles":{"en":[{"ext":"json3"}]},"automatic_captions":{"en":[{"ext":"json3"}]}}`,
		subs: sampleJSON3,
	}
	var lines []string
	s := New("yt-dlp", WithRunner(r), WithLogger(quiet()), WithLineFunc(func(_ progress.LogStream, l string) {
		lines = append(lines, l)
	}))

	caps, err := s.Captions(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Captions: %v", err)
	}
	if len(caps) != 2 {
		t.Fatalf("got %d captions, want 2: %+v", len(caps), caps)
	}
	if caps[0].Text != "Hello" || caps[1].Text != "big world" {
		t.Errorf("texts = %q, %q", caps[0].Text, caps[1].Text)
	}
	if caps[1].Start != 2 || caps[1].Duration != 2 {
		t.Errorf("timing = %v/%v", caps[1].Start, caps[1].Duration)
	}
	if len(r.calls) != 2 {
		t.Fatalf("runner calls = %d, want 2", len(r.calls))
	}
	if argAfter(r.calls[1], "--sub-format") != "json3" {
		t.Errorf("download args = %v", r.calls[1])
	}
	if !contains(r.calls[1], "--write-subs") || contains(r.calls[1], "--write-auto-subs") {
		t.Errorf("expected manual subtitle flag, got %v", r.calls[1])
	}
	if len(lines) != 2 {
		t.Errorf("forwarded lines = %v", lines)
	}
}

func TestCaptions_AutoTrackFallback(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	r := &fakeRunner{
		info: `{"id":"abc","subtitles":{"live_chat":[{"ext":"json"}]},"automatic_captions":{"de":[{}],"en":[{}]}}`,
		subs: sampleJSON3,
	}
	s := New("yt-dlp", WithRunner(r), WithLogger(quiet()), WithLanguages("en", "de"))

	if _, err := s.Captions(context.Background(), "abc"); err != nil {
		t.Fatalf("Captions: %v", err)
	}
	dl := r.calls[1]
	if !contains(dl, "--write-auto-subs") {
		t.Errorf("expected auto subtitle flag, got %v", dl)
	}
	if argAfter(dl, "--sub-langs") != "en" {
		t.Errorf("sub-langs = %q, want en", argAfter(dl, "--sub-langs"))
	}
}

func TestCaptions_Errors(t *testing.T) {
	tests := []struct {
		name     string
		runner   *fakeRunner
		sentinel error
	}{
		{
			name:     "no captions",
			runner:   &fakeRunner{info: `{"id":"abc"}`},
			sentinel: transcript.ErrTranscriptsDisabled,
		},
		{
			name:     "only live chat",
			runner:   &fakeRunner{info: `{"id":"abc","subtitles":{"live_chat":[{}]}}`},
			sentinel: transcript.ErrTranscriptsDisabled,
		},
		{
			name:     "other language only",
			runner:   &fakeRunner{info: `{"id":"abc","subtitles":{"fr":[{}]}}`},
			sentinel: transcript.ErrNoTranscriptFound,
		},
		{
			name:   "download failure",
			runner: &fakeRunner{info: `{"id":"abc","subtitles":{"en":[{}]}}`, failSub: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TMPDIR", t.TempDir())
			s := New("yt-dlp", WithRunner(tt.runner), WithLogger(quiet()))
			_, err := s.Captions(context.Background(), "abc")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("err = %v, want %v", err, tt.sentinel)
			}
			if tt.sentinel == nil && (errors.Is(err, transcript.ErrTranscriptsDisabled) || errors.Is(err, transcript.ErrNoTranscriptFound)) {
				t.Errorf("err = %v should be generic", err)
			}
		})
	}
}

func TestCaptions_WorkdirCleanup(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	r := &fakeRunner{info: `{"id":"abc","subtitles":{"en":[{}]}}`, subs: sampleJSON3}

	if _, err := New("yt-dlp", WithRunner(r), WithLogger(quiet())).Captions(context.Background(), "abc"); err != nil {
		t.Fatal(err)
	}
	left, _ := filepath.Glob(filepath.Join(tmp, "yt2blog", "subs-*"))
	if len(left) != 0 {
		t.Errorf("workdir not removed: %v", left)
	}

	if _, err := New("yt-dlp", WithRunner(r), WithLogger(quiet()), WithKeepTemp(true)).Captions(context.Background(), "abc"); err != nil {
		t.Fatal(err)
	}
	left, _ = filepath.Glob(filepath.Join(tmp, "yt2blog", "subs-*"))
	if len(left) != 1 {
		t.Errorf("expected kept workdir, found %v", left)
	}
}

func TestParseInfoRecoversLastLine(t *testing.T) {
	out := "not json\n{\"id\":\"abc\",\"title\":\"T\"}\n"
	info, err := parseInfo([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if info.ID != "abc" || info.Title != "T" {
		t.Errorf("info = %+v", info)
	}
	if _, err := parseInfo([]byte("garbage")); err == nil {
		t.Error("expected parse error")
	}
}

func TestSelectSubtitleFilePrefersLanguage(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"abc.de.json3", "abc.en.json3"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := selectSubtitleFile(dir, "en")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "abc.en.json3" {
		t.Errorf("got %s", got)
	}
	if _, err := selectSubtitleFile(t.TempDir(), "en"); err == nil {
		t.Error("expected error for empty dir")
	}
}

func contains(args []string, s string) bool {
	for _, a := range args {
		if a == s {
			return true
		}
	}
	return false
}
