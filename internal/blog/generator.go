// Package blog turns a transcript into a blog post with a text model.
package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yt2blog/internal/model"
)

// Completer answers a single text prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator writes the blog for a record whose transcript is already set.
type Generator struct {
	llm Completer
	log *slog.Logger
}

// NewGenerator returns a Generator backed by llm.
func NewGenerator(llm Completer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: llm, log: logger}
}

// Generate calls the model once. URL and transcript are carried through
// untouched; errors are returned as-is for the caller to decide on.
func (g *Generator) Generate(ctx context.Context, rec model.Record) (model.Record, error) {
	if g.llm == nil {
		return rec, errors.New("blog: no model configured")
	}
	prompt := BuildPrompt(rec.Transcript)

	start := time.Now()
	text, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		return rec, fmt.Errorf("generate blog: %w", err)
	}
	g.log.Debug("blog: generated",
		slog.String("url", rec.URL),
		slog.Int("prompt_chars", len(prompt)),
		slog.Int("blog_chars", len(text)),
		slog.Duration("took", time.Since(start)))
	return rec.WithBlog(text), nil
}
