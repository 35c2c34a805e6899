package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"yt2blog/internal/model"
)

type timedText struct {
	Lines []timedLine `xml:"text"`
}

type timedLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

var markupRe = regexp.MustCompile(`<[^>]*>`)

// cleanCaption undoes the second layer of entity escaping YouTube applies
// and drops inline formatting tags.
func cleanCaption(s string) string {
	s = html.UnescapeString(s)
	return strings.TrimSpace(markupRe.ReplaceAllString(s, ""))
}

func parseTimedText(body []byte) ([]model.Caption, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}
	caps := make([]model.Caption, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := cleanCaption(line.Text)
		if text == "" {
			continue
		}
		start, _ := strconv.ParseFloat(line.Start, 64)
		dur, _ := strconv.ParseFloat(line.Dur, 64)
		caps = append(caps, model.Caption{Text: text, Start: start, Duration: dur})
	}
	return caps, nil
}

func (c *Client) fetchTimedText(ctx context.Context, baseURL string) ([]model.Caption, error) {
	// srv3 is a different XML dialect; the default format is the <text> one.
	baseURL = strings.Replace(baseURL, "&fmt=srv3", "", 1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch timedtext: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read timedtext: %w", err)
	}
	return parseTimedText(body)
}
