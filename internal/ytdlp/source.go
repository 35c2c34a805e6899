// Package ytdlp reads captions through the yt-dlp binary.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"yt2blog/internal/model"
	"yt2blog/internal/progress"
	"yt2blog/internal/transcript"
	"yt2blog/internal/util"
)

const (
	stdout = progress.StreamStdout
	stderr = progress.StreamStderr
)

// LineFunc receives yt-dlp output lines as they are produced.
type LineFunc func(stream progress.LogStream, line string)

// Source is a transcript.CaptionSource that shells out to yt-dlp.
type Source struct {
	runner   util.CmdRunner
	bin      string
	langs    []string
	keepTemp bool
	onLine   LineFunc
	log      *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithRunner sets the command runner.
func WithRunner(r util.CmdRunner) Option { return func(s *Source) { s.runner = r } }

// WithLanguages sets the language codes to look for, most preferred first.
func WithLanguages(langs ...string) Option {
	return func(s *Source) {
		if len(langs) > 0 {
			s.langs = append([]string(nil), langs...)
		}
	}
}

// WithKeepTemp leaves the subtitle workdir on disk.
func WithKeepTemp(keep bool) Option { return func(s *Source) { s.keepTemp = keep } }

// WithLineFunc forwards yt-dlp output lines, e.g. to a progress.Reporter.
func WithLineFunc(fn LineFunc) Option { return func(s *Source) { s.onLine = fn } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Source running the yt-dlp binary at bin.
func New(bin string, opts ...Option) *Source {
	s := &Source{
		bin:   bin,
		langs: []string{"en"},
		log:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner(s.log)
	}
	return s
}

// Captions implements transcript.CaptionSource.
func (s *Source) Captions(ctx context.Context, videoID string) ([]model.Caption, error) {
	if s.bin == "" {
		return nil, errors.New("yt-dlp path is required")
	}
	watchURL := "https://www.youtube.com/watch?v=" + videoID

	info, err := s.fetchInfo(ctx, watchURL)
	if err != nil {
		return nil, err
	}
	if !info.hasCaptions() {
		return nil, transcript.ErrTranscriptsDisabled
	}
	lang, auto, ok := info.pick(s.langs)
	if !ok {
		return nil, fmt.Errorf("%w (wanted %s)", transcript.ErrNoTranscriptFound, strings.Join(s.langs, ","))
	}

	workdir, err := util.MakeTempWorkdir("subs")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	if s.keepTemp {
		s.log.Info("ytdlp: keeping workdir", slog.String("dir", workdir))
	} else {
		defer os.RemoveAll(workdir)
	}

	writeFlag := "--write-subs"
	if auto {
		writeFlag = "--write-auto-subs"
	}
	_, err = s.runner.Run(ctx, util.CmdSpec{
		Path: s.bin,
		Args: []string{
			"--skip-download",
			"--no-playlist",
			writeFlag,
			"--sub-langs", lang,
			"--sub-format", "json3",
			"-o", filepath.Join(workdir, "%(id)s.%(ext)s"),
			watchURL,
		},
		Dir:        workdir,
		StdoutLine: s.lineFunc(stdout),
		StderrLine: s.lineFunc(stderr),
	})
	if err != nil {
		return nil, fmt.Errorf("subtitle download failed: %w", err)
	}

	path, err := selectSubtitleFile(workdir, lang)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	return parseJSON3(data)
}

func (s *Source) lineFunc(stream progress.LogStream) func(string) {
	return func(line string) {
		s.log.Debug("yt-dlp", slog.String("line", line))
		if s.onLine != nil {
			s.onLine(stream, line)
		}
	}
}

// selectSubtitleFile finds the json3 file yt-dlp wrote, preferring the one
// tagged with lang.
func selectSubtitleFile(workdir, lang string) (string, error) {
	candidates, err := filepath.Glob(filepath.Join(workdir, "*.json3"))
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", errors.New("subtitle download succeeded but no json3 file found")
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		mi := strings.HasSuffix(candidates[i], "."+lang+".json3")
		mj := strings.HasSuffix(candidates[j], "."+lang+".json3")
		if mi != mj {
			return mi
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0], nil
}
