package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the TUI until every job has finished or the user quits. The
// returned error lists failed jobs.
func Run(ctx context.Context, urls []string, workers int, run JobFunc, out io.Writer) error {
	m := NewModel(ctx, urls, workers, run)
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return err
	}
	fm, ok := final.(Model)
	if !ok {
		return nil
	}
	return fm.failures()
}

func (m Model) failures() error {
	var failed []string
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if js == nil {
			continue
		}
		switch {
		case js.err != nil:
			failed = append(failed, fmt.Sprintf("- %s: %s", js.url, js.err))
		case !js.done:
			failed = append(failed, fmt.Sprintf("- %s: not finished", js.url))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d job(s) failed:\n%s", len(failed), strings.Join(failed, "\n"))
	}
	return nil
}
