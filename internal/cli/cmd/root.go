package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"yt2blog/internal/config"
	"yt2blog/internal/model"
	"yt2blog/internal/pipeline"
	"yt2blog/internal/util"
)

const (
	ExitOK            = 0
	ExitCLIError      = 1
	ExitMissingConfig = 2
	ExitGenerateError = 3
	ExitOutputError   = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitFor attaches an exit code to err based on what failed.
func exitFor(err error) error {
	if err == nil {
		return nil
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee
	}
	switch {
	case errors.Is(err, pipeline.ErrGenerate):
		return &ExitError{Code: ExitGenerateError, Err: err}
	case errors.Is(err, pipeline.ErrOutput):
		return &ExitError{Code: ExitOutputError, Err: err}
	default:
		return &ExitError{Code: ExitCLIError, Err: err}
	}
}

// app carries state shared by all commands of one invocation.
type app struct {
	v        *viper.Viper
	envFiles []string
	opts     model.CLIOptions
	log      *slog.Logger

	runner       util.CmdRunner
	newSource    sourceFactory
	newCompleter completerFactory
}

func newApp() *app {
	return &app{
		v:            viper.New(),
		newSource:    defaultSource,
		newCompleter: defaultCompleter,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "yt2blog [urls...]",
		Short: "Turn YouTube videos into blog posts",
		Long: "yt2blog fetches the transcript of a YouTube video and asks Gemini to write a blog post " +
			"from it: a title, a main body and a conclusion. Videos without a usable transcript still " +
			"go through the model, which answers that there is no blog for the link.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.MinimumNArgs(1),
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(a, cmd, args)
		},
	}

	pf := root.PersistentFlags()
	pf.String("api-key", "", "Gemini API key (default from GOOGLE_API_KEY or GEMINI_API_KEY)")
	pf.String("model", "gemini-2.0-flash", "Gemini model name")
	pf.StringSlice("lang", []string{"en"}, "Preferred transcript languages, most preferred first")
	pf.String("source", string(model.SourceWeb), "Caption source: web, ytdlp")
	pf.String("dl-binary", "", "Path to yt-dlp (ytdlp source)")
	pf.String("proxy", "", "HTTP proxy for YouTube requests (default from PROXY_SERVER)")
	pf.Duration("http-timeout", 30*time.Second, "Timeout for each YouTube HTTP request")
	pf.StringP("out-dir", "o", "", "Write each blog to this directory instead of stdout")
	pf.String("format", string(model.FormatMarkdown), "Output format: markdown, html")
	pf.BoolP("verbose", "v", false, "Debug logging on stderr")
	pf.Int("jobs", 2, "Max concurrent jobs in TUI")
	pf.Bool("keep-temp", false, "Keep yt-dlp subtitle downloads")

	// `yt2blog <url>` behaves like `yt2blog run <url>`.
	bindRunFlags(root.Flags())

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newTranscriptCmd(a))
	root.AddCommand(newPromptCmd(a))
	root.AddCommand(newTuiCmd(a))
	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newCompletionCmd())

	return root
}

func bindRunFlags(fs *pflag.FlagSet) {
	fs.StringP("out", "O", "", "Write the blog to this file (single URL only)")
}

// setup resolves configuration and the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.Init(a.v, cmd.Root(), a.envFiles...); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	opts, err := config.Load(a.v)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	a.opts = opts
	if a.log == nil {
		a.log = newLogger(cmd.ErrOrStderr(), opts.Verbose)
	}
	if a.runner == nil {
		a.runner = util.NewDefaultRunner(a.log)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	return newRootCmd(newApp()).ExecuteContext(ctx)
}
