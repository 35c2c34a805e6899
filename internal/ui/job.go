package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"yt2blog/internal/progress"
)

const maxLogLines = 200

type jobState struct {
	id     string
	url    string
	stage  progress.Stage
	status string
	err    error
	done   bool

	started time.Time
	elapsed time.Duration

	outputPath string
	blog       string

	spinner spinner.Model

	logsRing []string
}

func newJobState(id, url string, styles Styles) jobState {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner
	return jobState{
		id:      id,
		url:     url,
		stage:   progress.StageQueued,
		status:  "Queued",
		spinner: sp,
	}
}

func (js *jobState) appendLog(line string) {
	if len(js.logsRing) >= maxLogLines {
		js.logsRing = js.logsRing[1:]
	}
	js.logsRing = append(js.logsRing, line)
}

func (js *jobState) active() bool {
	return !js.done && !js.started.IsZero()
}
