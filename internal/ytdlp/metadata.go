package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"yt2blog/internal/util"
)

// videoInfo mirrors the parts of yt-dlp --dump-json output we read.
type videoInfo struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Subtitles         map[string][]subFormat `json:"subtitles"`
	AutomaticCaptions map[string][]subFormat `json:"automatic_captions"`
}

type subFormat struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// hasCaptions ignores live chat replays, which yt-dlp lists as a subtitle.
func (v videoInfo) hasCaptions() bool {
	for lang := range v.Subtitles {
		if lang != "live_chat" {
			return true
		}
	}
	return len(v.AutomaticCaptions) > 0
}

// pick returns the first wanted language with a manual track, else the first
// with an automatic one.
func (v videoInfo) pick(langs []string) (lang string, auto bool, ok bool) {
	for _, l := range langs {
		if len(v.Subtitles[l]) > 0 {
			return l, false, true
		}
	}
	for _, l := range langs {
		if len(v.AutomaticCaptions[l]) > 0 {
			return l, true, true
		}
	}
	return "", false, false
}

func (s *Source) fetchInfo(ctx context.Context, watchURL string) (videoInfo, error) {
	res, runErr := s.runner.Run(ctx, util.CmdSpec{
		Path:       s.bin,
		Args:       []string{"--dump-json", "--skip-download", "--no-playlist", watchURL},
		StderrLine: s.lineFunc(stderr),
	})
	if runErr != nil && len(res.Stdout) == 0 {
		return videoInfo{}, fmt.Errorf("metadata fetch failed: %w", runErr)
	}
	return parseInfo(res.Stdout)
}

// parseInfo decodes the metadata, falling back to the last JSON line when
// stdout carries more than one object.
func parseInfo(stdout []byte) (videoInfo, error) {
	data := strings.TrimSpace(string(stdout))
	var info videoInfo
	err := json.NewDecoder(strings.NewReader(data)).Decode(&info)
	if err == nil {
		return info, nil
	}
	lines := strings.Split(data, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var tmp videoInfo
		if json.Unmarshal([]byte(line), &tmp) == nil && tmp.ID != "" {
			return tmp, nil
		}
	}
	return videoInfo{}, fmt.Errorf("parse metadata JSON: %w", err)
}
