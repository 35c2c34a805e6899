// Package transcript turns a video URL into transcript text, mapping every
// retrieval failure to a readable placeholder instead of an error.
package transcript

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"yt2blog/internal/model"
)

// Placeholder texts stored in Record.Transcript when no captions could be used.
const (
	MsgInvalidURL  = "Invalid YouTube URL."
	MsgDisabled    = "This video doesn't contain a transcript."
	MsgNotFound    = "No transcript was found for this video."
	msgErrorPrefix = "An error occurred: "
)

var (
	// ErrTranscriptsDisabled means the uploader turned captions off for the video.
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	// ErrNoTranscriptFound means captions exist but none in a requested language.
	ErrNoTranscriptFound = errors.New("no transcript found for the requested languages")
)

// CaptionSource fetches the ordered caption fragments of a video.
type CaptionSource interface {
	Captions(ctx context.Context, videoID string) ([]model.Caption, error)
}

// Fetcher resolves a URL to a Record with its Transcript populated.
type Fetcher struct {
	source CaptionSource
	log    *slog.Logger
}

// NewFetcher returns a Fetcher reading captions from src.
func NewFetcher(src CaptionSource, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{source: src, log: logger}
}

// Fetch never fails: problems end up as text in the returned record's Transcript.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) model.Record {
	rec := model.NewRecord(rawURL)

	id, err := VideoID(rawURL)
	if errors.Is(err, ErrInvalidURL) {
		f.log.Warn("transcript: no video id in url", slog.String("url", rawURL))
		return rec.WithTranscript(MsgInvalidURL)
	}
	if err != nil {
		f.log.Warn("transcript: parse url", slog.String("url", rawURL), slog.Any("err", err))
		return rec.WithTranscript(msgErrorPrefix + err.Error())
	}

	caps, err := f.source.Captions(ctx, id)
	if err != nil {
		f.log.Warn("transcript: captions unavailable", slog.String("id", id), slog.Any("err", err))
		return rec.WithTranscript(Message(err))
	}

	f.log.Debug("transcript: fetched", slog.String("id", id), slog.Int("fragments", len(caps)))
	return rec.WithTranscript(Join(caps))
}

// Join concatenates fragment texts with single spaces, keeping their order.
func Join(caps []model.Caption) string {
	parts := make([]string, len(caps))
	for i, c := range caps {
		parts[i] = c.Text
	}
	return strings.Join(parts, " ")
}

// Message maps a caption source error to its placeholder text.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidURL):
		return MsgInvalidURL
	case errors.Is(err, ErrTranscriptsDisabled):
		return MsgDisabled
	case errors.Is(err, ErrNoTranscriptFound):
		return MsgNotFound
	default:
		return msgErrorPrefix + err.Error()
	}
}
