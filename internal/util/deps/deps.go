package deps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"yt2blog/internal/util"
)

// ErrDownloaderNotFound is returned when no yt-dlp binary can be located.
var ErrDownloaderNotFound = errors.New("could not find yt-dlp in PATH; install yt-dlp or pass --dl-binary")

// FindDownloader returns the path to yt-dlp. A non-empty customPath is tried
// as a file first, then looked up in PATH.
func FindDownloader(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("could not find downloader at %q: %w", customPath, ErrDownloaderNotFound)
	}
	if p, err := exec.LookPath("yt-dlp"); err == nil {
		return p, nil
	}
	return "", ErrDownloaderNotFound
}

// DownloaderVersion asks the binary at path for its version string.
func DownloaderVersion(ctx context.Context, r util.CmdRunner, path string) (string, error) {
	res, err := r.Run(ctx, util.CmdSpec{Path: path, Args: []string{"--version"}})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}
