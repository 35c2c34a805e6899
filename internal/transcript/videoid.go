package transcript

import (
	"errors"
	"net/url"
)

// ErrInvalidURL is returned by VideoID when the URL carries no video identifier.
var ErrInvalidURL = errors.New("invalid YouTube URL")

// VideoID extracts the video identifier from the "v" query parameter of a watch URL.
// Only the query string is consulted; short links without "v" are rejected.
func VideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	// Malformed pairs are skipped, the rest of the query still counts.
	q, _ := url.ParseQuery(u.RawQuery)
	id := q.Get("v")
	if id == "" {
		return "", ErrInvalidURL
	}
	return id, nil
}
