package cmd

import (
	"context"
	"errors"
	"log/slog"

	"yt2blog/internal/blog"
	"yt2blog/internal/gemini"
	"yt2blog/internal/model"
	"yt2blog/internal/transcript"
	"yt2blog/internal/util/deps"
	"yt2blog/internal/youtube"
	"yt2blog/internal/ytdlp"
)

type sourceFactory func(opts model.CLIOptions, log *slog.Logger, onLine ytdlp.LineFunc) (transcript.CaptionSource, error)

type completerFactory func(ctx context.Context, opts model.CLIOptions) (blog.Completer, func() error, error)

func defaultSource(opts model.CLIOptions, log *slog.Logger, onLine ytdlp.LineFunc) (transcript.CaptionSource, error) {
	switch opts.Source {
	case model.SourceYTDLP:
		bin, err := deps.FindDownloader(opts.DLBinary)
		if err != nil {
			return nil, &ExitError{Code: ExitMissingConfig, Err: err}
		}
		return ytdlp.New(bin,
			ytdlp.WithLanguages(opts.Languages...),
			ytdlp.WithKeepTemp(opts.KeepTemp),
			ytdlp.WithLineFunc(onLine),
			ytdlp.WithLogger(log),
		), nil
	default:
		hc, err := youtube.NewHTTPClient(opts.HTTPTimeout, opts.Proxy)
		if err != nil {
			return nil, &ExitError{Code: ExitCLIError, Err: err}
		}
		return youtube.New(
			youtube.WithHTTPClient(hc),
			youtube.WithLanguages(opts.Languages...),
			youtube.WithLogger(log),
		), nil
	}
}

func defaultCompleter(ctx context.Context, opts model.CLIOptions) (blog.Completer, func() error, error) {
	c, err := gemini.New(ctx, gemini.Config{APIKey: opts.APIKey, Model: opts.Model})
	if errors.Is(err, gemini.ErrMissingAPIKey) {
		return nil, nil, &ExitError{Code: ExitMissingConfig, Err: err}
	}
	if err != nil {
		return nil, nil, &ExitError{Code: ExitGenerateError, Err: err}
	}
	return c, c.Close, nil
}
