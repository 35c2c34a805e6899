package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"yt2blog/internal/model"
	"yt2blog/internal/util/deps"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Check configuration and external dependencies",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(a, cmd)
		},
	}
}

func runDoctor(a *app, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	opts := a.opts
	var problems []string

	if opts.APIKey == "" {
		fmt.Fprintln(out, "API key:    missing (set GOOGLE_API_KEY or --api-key)")
		problems = append(problems, "no Gemini API key")
	} else {
		fmt.Fprintf(out, "API key:    %s\n", maskKey(opts.APIKey))
	}
	fmt.Fprintf(out, "Model:      %s\n", opts.Model)
	fmt.Fprintf(out, "Source:     %s\n", opts.Source)
	fmt.Fprintf(out, "Languages:  %s\n", strings.Join(opts.Languages, ", "))
	if opts.Proxy != "" {
		fmt.Fprintf(out, "Proxy:      %s\n", opts.Proxy)
	}

	dl, err := deps.FindDownloader(opts.DLBinary)
	switch {
	case err != nil:
		fmt.Fprintln(out, "yt-dlp:     not found")
		if opts.Source == model.SourceYTDLP {
			problems = append(problems, err.Error())
		}
	default:
		ver, verr := deps.DownloaderVersion(cmd.Context(), a.runner, dl)
		if verr != nil {
			ver = "unknown version"
		}
		fmt.Fprintf(out, "yt-dlp:     %s (%s)\n", dl, ver)
	}

	if used := a.v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Config:     %s\n", used)
	} else {
		fmt.Fprintln(out, "Config:     none")
	}

	if len(problems) > 0 {
		return &ExitError{Code: ExitMissingConfig, Err: errors.New(strings.Join(problems, "; "))}
	}
	return nil
}

func maskKey(k string) string {
	if len(k) <= 8 {
		return strings.Repeat("*", len(k))
	}
	return k[:4] + strings.Repeat("*", len(k)-8) + k[len(k)-4:]
}
