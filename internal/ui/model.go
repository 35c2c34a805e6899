package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"yt2blog/internal/progress"
)

// JobFunc runs the pipeline for one URL, reporting through rep. It should
// emit exactly one Result; if it returns without one, the model records the
// returned error as the job's result.
type JobFunc func(ctx context.Context, jobID, url string, rep progress.Reporter) error

// Model is the bubbletea model tracking a batch of blog jobs.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	run    JobFunc

	urls     []string
	jobOrder []string
	jobs     map[string]*jobState
	selected int
	workers  int
	running  int
	next     int // next index in urls to start

	width, height int
	styles        Styles
	overall       bubblesprogress.Model

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

// NewModel prepares one job per URL; at most workers run at a time.
func NewModel(ctx context.Context, urls []string, workers int, run JobFunc) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	jobs := make(map[string]*jobState, len(urls))
	order := make([]string, 0, len(urls))
	for i, u := range urls {
		id := toID(i)
		js := newJobState(id, u, sty)
		jobs[id] = &js
		order = append(order, id)
	}
	if workers <= 0 {
		workers = 2
	}

	return Model{
		ctx:      c,
		cancel:   cancel,
		run:      run,
		urls:     urls,
		jobs:     jobs,
		jobOrder: order,
		workers:  workers,
		styles:   sty,
		overall:  bubblesprogress.New(bubblesprogress.WithDefaultGradient(), bubblesprogress.WithWidth(40)),
		eventCh:  make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenEventsCmd(), func() tea.Msg { return startMsg{} }}
	for _, id := range m.jobOrder {
		cmds = append(cmds, m.jobs[id].spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.jobOrder)-1 {
				m.selected++
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case jobUpdateMsg:
		u := msg.U
		if js, ok := m.jobs[u.JobID]; ok {
			js.stage = u.Stage
			js.status = u.Message
			js.elapsed = u.Elapsed
		}
		return m, m.listenEventsCmd()

	case jobLogMsg:
		l := msg.L
		if js, ok := m.jobs[l.JobID]; ok {
			js.appendLog(strings.TrimRight(l.Line, "\r\n"))
		}
		return m, m.listenEventsCmd()

	case jobResultMsg:
		r := msg.R
		js, ok := m.jobs[r.JobID]
		if !ok || js.done {
			return m, m.listenEventsCmd()
		}
		js.done = true
		js.err = r.Err
		js.elapsed = time.Since(js.started)
		if r.Err == nil {
			js.stage = progress.StageCompleted
			js.outputPath = r.OutputPath
			js.blog = r.Blog
			if r.OutputPath != "" {
				js.status = "Saved: " + r.OutputPath
			} else {
				js.status = "Completed"
			}
		} else {
			js.stage = progress.StageError
			js.status = r.Err.Error()
		}
		m.running--
		if m.allDone() {
			return m, tea.Quit
		}
		return m, tea.Batch(m.listenEventsCmd(), m.startJobs())

	case startMsg:
		if m.allDone() {
			return m, tea.Quit
		}
		return m, m.startJobs()

	case allDoneMsg:
		return m, tea.Quit
	}

	// Spinner ticks and anything else.
	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		var c tea.Cmd
		js.spinner, c = js.spinner.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	out := m.viewHeader() + "\n\n" + m.viewJobs()
	if d := m.viewDetail(); d != "" {
		out += "\n" + d
	}
	if s := m.viewSummary(); s != "" {
		out += "\n" + s
	}
	return out
}

func (m Model) allDone() bool {
	return m.next >= len(m.urls) && m.running == 0
}

// startJobs launches queued jobs up to the worker limit. It mutates the
// model's counters, so it must be called from Update.
func (m *Model) startJobs() tea.Cmd {
	var cmds []tea.Cmd
	for m.running < m.workers && m.next < len(m.urls) {
		if m.ctx.Err() != nil {
			return func() tea.Msg { return allDoneMsg{} }
		}
		idx := m.next
		id := m.jobOrder[idx]
		m.next++
		m.running++
		js := m.jobs[id]
		js.started = time.Now()
		js.stage = progress.StageFetching
		js.status = "Starting"
		cmds = append(cmds, m.jobCmd(id, m.urls[idx]))
	}
	return tea.Batch(cmds...)
}

func (m Model) jobCmd(id, url string) tea.Cmd {
	ctx, run, ch := m.ctx, m.run, m.eventCh
	return func() tea.Msg {
		rep := &teaReporter{ctx: ctx, ch: ch}
		var err error
		if run == nil {
			err = errors.New("no job runner configured")
		} else {
			err = run(ctx, id, url, rep)
		}
		if !rep.sentResult() {
			if err == nil {
				err = errors.New("job finished without a result")
			}
			return jobResultMsg{R: progress.Result{JobID: id, URL: url, Err: err}}
		}
		return nil
	}
}

func (m Model) listenEventsCmd() tea.Cmd {
	ctx, ch := m.ctx, m.eventCh
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return allDoneMsg{}
		case msg := <-ch:
			return msg
		}
	}
}

// teaReporter forwards pipeline events into the program's event channel.
type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg

	mu     sync.Mutex
	result bool
}

func (r *teaReporter) Update(u progress.Update) {
	// Terminal stages must not be dropped.
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		r.send(jobUpdateMsg{U: u})
		return
	}
	select {
	case r.ch <- jobUpdateMsg{U: u}:
	default:
	}
}

func (r *teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- jobLogMsg{L: l}:
	default:
	}
}

func (r *teaReporter) Result(res progress.Result) {
	r.mu.Lock()
	r.result = true
	r.mu.Unlock()
	r.send(jobResultMsg{R: res})
}

// send blocks until the message is queued or the program is shutting down.
func (r *teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}

func (r *teaReporter) sentResult() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

func toID(i int) string {
	return "job-" + strconv.Itoa(i+1)
}
