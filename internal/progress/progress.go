package progress

import "time"

// Stage identifies a high-level step in the pipeline.
type Stage string

const (
	StageQueued     Stage = "queued"
	StageFetching   Stage = "fetching"
	StageGenerating Stage = "generating"
	StageCompleted  Stage = "completed"
	StageError      Stage = "error"
)

// LogStream indicates which stream produced a log line.
type LogStream int

const (
	StreamStdout LogStream = iota
	StreamStderr
)

// Update conveys a stage change for a job.
type Update struct {
	JobID   string
	Stage   Stage
	Elapsed time.Duration // time spent in the job so far
	Message string        // short human-friendly status line
}

// Log is a log line associated with a job, e.g. yt-dlp output.
type Log struct {
	JobID  string
	Stream LogStream
	Line   string
}

// Result is emitted once per job when it completes or fails.
type Result struct {
	JobID      string
	URL        string
	Transcript string
	Blog       string
	OutputPath string // set by callers that persist the blog
	Err        error  // nil on success
}

// Reporter is implemented by UI or any observer interested in progress events.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}

// Nop is a Reporter that drops every event.
type Nop struct{}

func (Nop) Update(Update) {}
func (Nop) Log(Log)       {}
func (Nop) Result(Result) {}
