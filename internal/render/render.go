// Package render turns generated blog markdown into the requested output format.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"yt2blog/internal/model"
	"yt2blog/internal/transcript"
	"yt2blog/internal/util"
)

// ParseFormat validates a --format value. Empty means markdown.
func ParseFormat(s string) (model.OutputFormat, error) {
	switch f := model.OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", model.FormatMarkdown, "md":
		return model.FormatMarkdown, nil
	case model.FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want markdown or html)", s)
	}
}

// Render returns blog in the given format. Markdown passes through unchanged;
// HTML is a complete page titled after the post.
func Render(blog string, format model.OutputFormat) ([]byte, error) {
	switch format {
	case "", model.FormatMarkdown:
		return []byte(blog), nil
	case model.FormatHTML:
		return toHTML(blog), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func toHTML(md string) []byte {
	// A parser keeps state between calls, so each document gets a fresh one.
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))

	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
		Title: Title(md),
	})
	return markdown.Render(doc, r)
}

var (
	headingRe    = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*#*$`)
	titleLabelRe = regexp.MustCompile(`^\**\s*Title\s*(?::\s*\**|\**\s*:)\s*(.*)$`)
)

// Title picks the post title: the first markdown heading, or the text after a
// "Title:" label. Emphasis markers are dropped.
func Title(md string) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := headingRe.FindStringSubmatch(line); m != nil {
			return cleanTitle(m[1])
		}
		if m := titleLabelRe.FindStringSubmatch(line); m != nil && m[1] != "" {
			return cleanTitle(m[1])
		}
	}
	return ""
}

func cleanTitle(s string) string {
	s = strings.Trim(s, "*_ ")
	if m := titleLabelRe.FindStringSubmatch(s); m != nil && m[1] != "" {
		s = strings.Trim(m[1], "*_ ")
	}
	return s
}

// Ext is the file extension for format, including the dot.
func Ext(format model.OutputFormat) string {
	if format == model.FormatHTML {
		return ".html"
	}
	return ".md"
}

// OutputName is the file basename for a URL's blog: the video id when the URL
// has one, otherwise a sanitized form of the URL.
func OutputName(rawURL string, format model.OutputFormat) string {
	base, err := transcript.VideoID(rawURL)
	if err != nil {
		base = strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	}
	return util.SanitizeFilename(base) + Ext(format)
}
