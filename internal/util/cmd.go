package util

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// CmdSpec describes a subprocess to run.
type CmdSpec struct {
	Path string   // Binary path
	Args []string // Arguments
	Env  []string // Extra KEY=VALUE pairs on top of the inherited environment
	Dir  string   // Working directory; empty = inherit.

	StdoutLine    func(string) // Called for each stdout line (if non-nil)
	StderrLine    func(string) // Called for each stderr line (if non-nil)
	CaptureStdout bool         // Buffer stdout even when StdoutLine is set
}

// CmdResult contains captured output and exit status.
type CmdResult struct {
	Stdout []byte
	Stderr []byte
	Code   int
}

// CmdRunner runs subprocesses. Tests substitute a fake.
type CmdRunner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

// ExecRunner runs commands with os/exec and logs each command line at debug level.
type ExecRunner struct {
	Log *slog.Logger
}

// NewDefaultRunner returns an ExecRunner logging to logger (slog.Default when nil).
func NewDefaultRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{Log: logger}
}

// Run implements CmdRunner.
func (r *ExecRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	log.Debug("exec", slog.String("cmd", shellQuote(spec.Path, spec.Args)))
	return Run(ctx, spec)
}

// Run executes the command. Stderr is always captured; stdout is captured
// unless a StdoutLine callback takes it over. A non-zero exit returns an error
// and still populates the result.
func Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	var stdoutBuf, stderrBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	if spec.Env != nil {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return CmdResult{Code: -1}, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return CmdResult{Code: -1}, err
	}
	if err := cmd.Start(); err != nil {
		return CmdResult{Code: -1}, err
	}

	captureOut := spec.CaptureStdout || spec.StdoutLine == nil

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var sink *bytes.Buffer
		if captureOut {
			sink = &stdoutBuf
		}
		scanLines(stdoutPipe, spec.StdoutLine, sink)
	}()
	go func() {
		defer wg.Done()
		scanLines(stderrPipe, spec.StderrLine, &stderrBuf)
	}()

	// Readers must drain before Wait closes the pipes.
	wg.Wait()
	waitErr := cmd.Wait()

	res := CmdResult{Stdout: stdoutBuf.Bytes(), Stderr: stderrBuf.Bytes()}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.Code = exitErr.ExitCode()
		} else {
			res.Code = -1
		}
		return res, fmt.Errorf("command failed (exit %d): %w", res.Code, waitErr)
	}
	return res, nil
}

// scanLines feeds every line of r to fn and, when sink is non-nil, copies it there.
func scanLines(r io.Reader, fn func(string), sink *bytes.Buffer) {
	sc := bufio.NewScanner(r)
	// yt-dlp --dump-json emits a single line that can exceed 500KB.
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if fn != nil {
			fn(line)
		}
		if sink != nil {
			sink.WriteString(line)
			sink.WriteByte('\n')
		}
	}
}

// shellQuote returns a printable shell-like command string for logging.
func shellQuote(path string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quote(path))
	for _, a := range args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}
