package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"yt2blog/internal/blog"
	"yt2blog/internal/model"
	"yt2blog/internal/pipeline"
	"yt2blog/internal/render"
	"yt2blog/internal/transcript"
	"yt2blog/internal/util"
)

const blogSeparator = "\n---\n\n"

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run [urls...]",
		Short:         "Write a blog post for each URL",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(a, cmd, args)
		},
	}
	bindRunFlags(cmd.Flags())
	return cmd
}

// runExecute handles URLs one after another and stops at the first failure.
// Blogs go to stdout unless --out or --out-dir is given.
func runExecute(a *app, cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := a.opts
	outFile, _ := cmd.Flags().GetString("out")
	if outFile != "" && len(args) > 1 {
		return &ExitError{Code: ExitCLIError, Err: errors.New("--out takes a single URL; use --out-dir for several")}
	}
	warnNonYouTube(a.log, args)

	src, err := a.newSource(opts, a.log, nil)
	if err != nil {
		return exitFor(err)
	}
	llm, closeLLM, err := a.newCompleter(ctx, opts)
	if err != nil {
		return exitFor(err)
	}
	if closeLLM != nil {
		defer closeLLM()
	}

	var saver pipeline.Saver
	switch {
	case outFile != "":
		saver = render.FileSaver{Path: outFile, Format: opts.Format}
	case opts.OutDir != "":
		saver = render.FileSaver{Dir: opts.OutDir, Format: opts.Format}
	}

	fetcher := transcript.NewFetcher(src, a.log)
	gen := blog.NewGenerator(llm, a.log)
	stdout := cmd.OutOrStdout()

	for i, rawURL := range args {
		svc := pipeline.NewService(
			pipeline.WithFetcher(fetcher),
			pipeline.WithGenerator(gen),
			pipeline.WithSaver(saver),
			pipeline.WithLogger(a.log),
		)
		res, err := svc.RunJob(ctx, rawURL)
		if err != nil {
			return exitFor(err)
		}
		if saver != nil {
			fmt.Fprintf(stdout, "Saved: %s\n", res.OutputPath)
			continue
		}
		if err := writeBlog(stdout, res.Record.Blog, opts.Format, i > 0); err != nil {
			return &ExitError{Code: ExitOutputError, Err: err}
		}
	}
	return nil
}

func writeBlog(w io.Writer, text string, format model.OutputFormat, separate bool) error {
	data, err := render.Render(text, format)
	if err != nil {
		return err
	}
	if separate {
		if _, err := io.WriteString(w, blogSeparator); err != nil {
			return err
		}
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// warnNonYouTube flags likely typos early; such URLs still run and end up
// with the invalid-URL transcript.
func warnNonYouTube(log *slog.Logger, urls []string) {
	for _, u := range urls {
		if !util.IsYouTubeURL(u) {
			log.Warn("not a YouTube URL", slog.String("url", u))
		}
	}
}
