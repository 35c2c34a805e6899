package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"yt2blog/internal/blog"
	"yt2blog/internal/dirs"
	"yt2blog/internal/pipeline"
	"yt2blog/internal/progress"
	"yt2blog/internal/render"
	"yt2blog/internal/transcript"
	"yt2blog/internal/ui"
)

func newTuiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "tui [urls...]",
		Short:         "Generate several blogs concurrently with a live view",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return &ExitError{Code: ExitCLIError, Err: errors.New("tui needs an interactive terminal; use run instead")}
			}
			return runTUI(cmd.Context(), a, args, os.Stdout)
		},
	}
}

func runTUI(ctx context.Context, a *app, args []string, out io.Writer) error {
	opts := a.opts
	// Log lines would tear the screen apart.
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	outDir := opts.OutDir
	if outDir == "" {
		d, err := dirs.DefaultOutputDir()
		if err != nil {
			return &ExitError{Code: ExitOutputError, Err: err}
		}
		outDir = d
	}
	if err := dirs.Ensure(outDir); err != nil {
		return &ExitError{Code: ExitOutputError, Err: err}
	}

	llm, closeLLM, err := a.newCompleter(ctx, opts)
	if err != nil {
		return exitFor(err)
	}
	if closeLLM != nil {
		defer closeLLM()
	}
	gen := blog.NewGenerator(llm, quiet)
	saver := render.FileSaver{Dir: outDir, Format: opts.Format}

	job := func(ctx context.Context, jobID, url string, rep progress.Reporter) error {
		onLine := func(stream progress.LogStream, line string) {
			rep.Log(progress.Log{JobID: jobID, Stream: stream, Line: line})
		}
		src, err := a.newSource(opts, quiet, onLine)
		if err != nil {
			return err
		}
		svc := pipeline.NewService(
			pipeline.WithFetcher(transcript.NewFetcher(src, quiet)),
			pipeline.WithGenerator(gen),
			pipeline.WithSaver(saver),
			pipeline.WithReporter(rep),
			pipeline.WithJobID(jobID),
			pipeline.WithLogger(quiet),
		)
		_, err = svc.RunJob(ctx, url)
		return err
	}

	if err := ui.Run(ctx, args, opts.Jobs, job, out); err != nil {
		return &ExitError{Code: ExitGenerateError, Err: err}
	}
	return nil
}
