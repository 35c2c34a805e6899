// Package pipeline runs the fetch → generate workflow for one video URL.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"yt2blog/internal/model"
	"yt2blog/internal/progress"
)

var (
	// ErrGenerate marks failures of the model call.
	ErrGenerate = errors.New("blog generation failed")
	// ErrOutput marks failures writing the finished blog.
	ErrOutput = errors.New("writing blog failed")
)

// TranscriptFetcher resolves a URL to a record carrying its transcript.
// It reports problems inside the transcript rather than as an error.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, url string) model.Record
}

// BlogGenerator fills in the blog of a record.
type BlogGenerator interface {
	Generate(ctx context.Context, rec model.Record) (model.Record, error)
}

// Saver persists a finished record and returns where it went.
type Saver interface {
	Save(rec model.Record) (string, error)
}

// Service orchestrates fetch → generate, plus an optional save step.
type Service struct {
	fetcher   TranscriptFetcher
	generator BlogGenerator
	saver     Saver
	reporter  progress.Reporter
	jobID     string
	log       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithFetcher sets the transcript fetcher.
func WithFetcher(f TranscriptFetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithGenerator sets the blog generator.
func WithGenerator(g BlogGenerator) Option {
	return func(s *Service) {
		s.generator = g
	}
}

// WithSaver writes each finished blog, e.g. into --out-dir.
func WithSaver(sv Saver) Option {
	return func(s *Service) {
		s.saver = sv
	}
}

// WithReporter attaches a progress reporter (used by TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithJobID sets the job ID associated with reporter events.
func WithJobID(id string) Option {
	return func(s *Service) {
		s.jobID = id
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// NewService constructs a Service. Without a reporter events are dropped;
// without a job ID a random one is assigned.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.reporter == nil {
		s.reporter = progress.Nop{}
	}
	if s.jobID == "" {
		s.jobID = uuid.NewString()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// JobID returns the ID used for reporter events.
func (s *Service) JobID() string { return s.jobID }

// Result is the outcome of RunJob.
type Result struct {
	Record     model.Record
	OutputPath string // set when a Saver is configured
	Elapsed    time.Duration
}

// RunJob fetches the transcript and generates the blog. A failed fetch is not
// an error: the placeholder transcript goes to the model like any other. When
// generation fails, the returned record is the one produced by the fetch.
func (s *Service) RunJob(ctx context.Context, url string) (Result, error) {
	if s.fetcher == nil || s.generator == nil {
		return Result{Record: model.NewRecord(url)}, errors.New("pipeline: fetcher and generator are required")
	}
	start := time.Now()
	log := s.log.With(slog.String("job", s.jobID))

	s.update(progress.StageFetching, start, "Fetching transcript")
	rec := s.fetcher.Fetch(ctx, url)
	log.Info("transcript ready", slog.String("url", url), slog.Int("chars", len(rec.Transcript)))

	s.update(progress.StageGenerating, start, "Generating blog")
	out, err := s.generator.Generate(ctx, rec)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrGenerate, err)
		return s.fail(Result{Record: rec, Elapsed: time.Since(start)}, err)
	}

	res := Result{Record: out}
	if s.saver != nil {
		path, err := s.saver.Save(out)
		if err != nil {
			res.Elapsed = time.Since(start)
			return s.fail(res, fmt.Errorf("%w: %w", ErrOutput, err))
		}
		res.OutputPath = path
	}
	res.Elapsed = time.Since(start)

	msg := "Blog ready"
	if res.OutputPath != "" {
		msg = "Saved: " + filepath.Base(res.OutputPath)
	}
	log.Info("blog ready", slog.String("url", url), slog.Duration("took", res.Elapsed))
	s.update(progress.StageCompleted, start, msg)
	s.reporter.Result(progress.Result{
		JobID:      s.jobID,
		URL:        url,
		Transcript: out.Transcript,
		Blog:       out.Blog,
		OutputPath: res.OutputPath,
	})
	return res, nil
}

// FetchOnly runs the transcript step alone.
func (s *Service) FetchOnly(ctx context.Context, url string) model.Record {
	if s.fetcher == nil {
		return model.NewRecord(url)
	}
	start := time.Now()
	s.update(progress.StageFetching, start, "Fetching transcript")
	rec := s.fetcher.Fetch(ctx, url)
	s.update(progress.StageCompleted, start, "Transcript ready")
	return rec
}

func (s *Service) fail(res Result, err error) (Result, error) {
	s.log.Error("job failed", slog.String("job", s.jobID), slog.String("url", res.Record.URL), slog.Any("err", err))
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageError,
		Elapsed: res.Elapsed,
		Message: err.Error(),
	})
	s.reporter.Result(progress.Result{
		JobID:      s.jobID,
		URL:        res.Record.URL,
		Transcript: res.Record.Transcript,
		Err:        err,
	})
	return res, err
}

func (s *Service) update(stage progress.Stage, start time.Time, msg string) {
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   stage,
		Elapsed: time.Since(start),
		Message: msg,
	})
}
