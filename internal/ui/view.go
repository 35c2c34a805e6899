package ui

import (
	"fmt"
	"strings"

	"yt2blog/internal/progress"
)

const previewLines = 6

func (m Model) viewHeader() string {
	done, total := 0, len(m.jobOrder)
	for _, id := range m.jobOrder {
		if m.jobs[id].done {
			done++
		}
	}
	ratio := 0.0
	if total > 0 {
		ratio = float64(done) / float64(total)
	}
	title := m.styles.Title.Render("yt2blog · YouTube to blog")
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Jobs: %d/%d done • ↑/↓: select • q: quit", done, total))
	return title + "\n" + sub + "\n" + m.overall.ViewAs(ratio)
}

func (m Model) viewJobs() string {
	var b strings.Builder
	for i, id := range m.jobOrder {
		b.WriteString(m.viewJob(m.jobs[id], i == m.selected))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewJob(js *jobState, selected bool) string {
	stageStyle := m.styles.JobInfo
	switch js.stage {
	case progress.StageFetching:
		stageStyle = m.styles.StageFetch
	case progress.StageGenerating:
		stageStyle = m.styles.StageGen
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageError:
		stageStyle = m.styles.Error
	}

	cursor := "  "
	if selected {
		cursor = m.styles.Cursor.Render("› ")
	}
	left := m.styles.JobTitle.Render(truncate(js.url, 56))
	stage := stageStyle.Render(string(js.stage))

	var state string
	switch {
	case js.done && js.err == nil:
		state = m.styles.Success.Render("✓ done")
	case js.err != nil:
		state = m.styles.Error.Render("✗ error")
	case js.active():
		state = js.spinner.View() + " " + m.styles.Faint.Render("working")
	default:
		state = m.styles.Faint.Render("waiting")
	}
	if js.elapsed > 0 {
		state += m.styles.Faint.Render(fmt.Sprintf("  %.1fs", js.elapsed.Seconds()))
	}

	line1 := fmt.Sprintf("%s%s  %s", cursor, left, stage)
	line2 := "  " + state
	line3 := "  " + m.styles.JobInfo.Render(truncate(js.status, 96))
	return m.styles.Box.Render(line1 + "\n" + line2 + "\n" + line3)
}

// viewDetail shows recent yt-dlp output or the blog preview of the selected job.
func (m Model) viewDetail() string {
	if m.selected < 0 || m.selected >= len(m.jobOrder) {
		return ""
	}
	js := m.jobs[m.jobOrder[m.selected]]
	var lines []string
	var heading string
	switch {
	case js.blog != "":
		heading = "Preview"
		lines = strings.Split(strings.TrimSpace(js.blog), "\n")
		if len(lines) > previewLines {
			lines = append(lines[:previewLines], "…")
		}
	case len(js.logsRing) > 0:
		heading = "Log"
		lines = js.logsRing
		if len(lines) > previewLines {
			lines = lines[len(lines)-previewLines:]
		}
	default:
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(heading))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(m.styles.Faint.Render("  " + truncate(l, 100)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSummary() string {
	var completed []string
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if js.done && js.err == nil && js.outputPath != "" {
			completed = append(completed, js.outputPath)
		}
	}
	if len(completed) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("✓ Saved blogs:"))
	b.WriteString("\n")
	for _, path := range completed {
		b.WriteString(m.styles.Success.Render("  • " + path))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
