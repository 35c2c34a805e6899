// Package config resolves runtime options from flags, environment, a .env file
// and the config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yt2blog/internal/dirs"
	"yt2blog/internal/model"
	"yt2blog/internal/render"
)

// EnvPrefix is prepended to every config key when read from the environment.
const EnvPrefix = "YT2BLOG"

// flag name → viper key
var flagKeys = map[string]string{
	"api-key":      "api_key",
	"model":        "model",
	"lang":         "languages",
	"source":       "source",
	"dl-binary":    "dl_binary",
	"proxy":        "proxy",
	"http-timeout": "http_timeout",
	"out-dir":      "out_dir",
	"format":       "format",
	"verbose":      "verbose",
	"jobs":         "jobs",
	"keep-temp":    "keep_temp",
}

// Init wires v with defaults, the config file, .env files, environment and
// the root command's persistent flags. A missing config or .env file is not
// an error.
func Init(v *viper.Viper, root *cobra.Command, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	v.SetDefault("model", "gemini-2.0-flash")
	v.SetDefault("languages", []string{"en"})
	v.SetDefault("source", string(model.SourceWeb))
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("format", string(model.FormatMarkdown))
	v.SetDefault("jobs", 2)

	if cfgDir, err := dirs.ConfigDir(); err == nil {
		v.AddConfigPath(cfgDir)
	}
	v.SetConfigName("config") // config.{yaml|yml|json|toml}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", EnvPrefix+"_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("proxy", EnvPrefix+"_PROXY", "PROXY_SERVER")

	for name, key := range flagKeys {
		if f := root.PersistentFlags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Load reads the resolved options out of v and validates them.
func Load(v *viper.Viper) (model.CLIOptions, error) {
	opts := model.CLIOptions{
		APIKey:      strings.TrimSpace(v.GetString("api_key")),
		Model:       v.GetString("model"),
		Languages:   splitList(v.GetStringSlice("languages")),
		Source:      model.CaptionSourceKind(strings.ToLower(v.GetString("source"))),
		DLBinary:    v.GetString("dl_binary"),
		Proxy:       v.GetString("proxy"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		OutDir:      v.GetString("out_dir"),
		KeepTemp:    v.GetBool("keep_temp"),
		Verbose:     v.GetBool("verbose"),
		Jobs:        v.GetInt("jobs"),
	}

	switch opts.Source {
	case model.SourceWeb, model.SourceYTDLP:
	default:
		return opts, fmt.Errorf("invalid source %q (want web or ytdlp)", opts.Source)
	}
	format, err := render.ParseFormat(v.GetString("format"))
	if err != nil {
		return opts, err
	}
	opts.Format = format
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"en"}
	}
	if opts.Jobs < 1 {
		return opts, fmt.Errorf("jobs must be at least 1, got %d", opts.Jobs)
	}
	if opts.HTTPTimeout < 0 {
		return opts, fmt.Errorf("http-timeout must not be negative, got %s", opts.HTTPTimeout)
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}
	return opts, nil
}

// splitList accepts both repeated values and comma separated ones, which is
// how list values arrive from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
