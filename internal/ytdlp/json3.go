package ytdlp

import (
	"encoding/json"
	"fmt"
	"strings"

	"yt2blog/internal/model"
)

// json3 is YouTube's native caption format as written by --sub-format json3.
type json3 struct {
	Events []struct {
		TStartMs    int64 `json:"tStartMs"`
		DDurationMs int64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func parseJSON3(data []byte) ([]model.Caption, error) {
	var doc json3
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json3: %w", err)
	}
	caps := make([]model.Caption, 0, len(doc.Events))
	for _, ev := range doc.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.Join(strings.Fields(b.String()), " ")
		if text == "" {
			continue
		}
		caps = append(caps, model.Caption{
			Text:     text,
			Start:    float64(ev.TStartMs) / 1000,
			Duration: float64(ev.DDurationMs) / 1000,
		})
	}
	return caps, nil
}
