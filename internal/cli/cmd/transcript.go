package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"yt2blog/internal/blog"
	"yt2blog/internal/pipeline"
	"yt2blog/internal/transcript"
)

func newTranscriptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "transcript <url...>",
		Short:         "Print the transcript that would be sent to the model",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchEach(a, cmd, args, func(text string) string { return text })
		},
	}
}

func newPromptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "prompt <url...>",
		Short:         "Print the full prompt without calling the model",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchEach(a, cmd, args, blog.BuildPrompt)
		},
	}
}

// fetchEach runs only the transcript step for every URL and prints show(transcript).
func fetchEach(a *app, cmd *cobra.Command, args []string, show func(string) string) error {
	warnNonYouTube(a.log, args)
	src, err := a.newSource(a.opts, a.log, nil)
	if err != nil {
		return exitFor(err)
	}
	svc := pipeline.NewService(
		pipeline.WithFetcher(transcript.NewFetcher(src, a.log)),
		pipeline.WithLogger(a.log),
	)
	out := cmd.OutOrStdout()
	for i, u := range args {
		rec := svc.FetchOnly(cmd.Context(), u)
		if i > 0 {
			fmt.Fprint(out, blogSeparator)
		}
		if _, err := fmt.Fprintln(out, show(rec.Transcript)); err != nil {
			return &ExitError{Code: ExitOutputError, Err: err}
		}
	}
	return nil
}
