package model

import "time"

// CaptionSourceKind selects how captions are retrieved.
type CaptionSourceKind string

const (
	SourceWeb   CaptionSourceKind = "web"   // YouTube watch page / Innertube over HTTP
	SourceYTDLP CaptionSourceKind = "ytdlp" // yt-dlp subprocess
)

// OutputFormat controls how the blog is written out.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
)

// CLIOptions holds user-configurable runtime options resolved from flags, env and config.
type CLIOptions struct {
	APIKey      string
	Model       string
	Languages   []string          // Preferred caption languages, most preferred first.
	Source      CaptionSourceKind // web | ytdlp
	DLBinary    string            // Optional explicit path to yt-dlp
	Proxy       string            // Optional HTTP proxy for caption requests
	HTTPTimeout time.Duration

	OutDir   string
	Format   OutputFormat // markdown | html
	KeepTemp bool
	Verbose  bool
	Jobs     int // Max concurrent jobs for TUI
}
