package util

import (
	"net/url"
	"strings"
)

// IsYouTubeURL reports whether raw parses as a URL on a YouTube host.
// Scheme-less input such as "youtube.com/watch?v=x" is accepted.
func IsYouTubeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		if u2, e2 := url.Parse("https://" + raw); e2 == nil {
			u = u2
		}
	}
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be", "youtube-nocookie.com":
		return true
	}
	return false
}
