package util

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const tempRoot = "yt2blog"

// MakeTempWorkdir creates a unique temp directory under $TMPDIR/yt2blog.
func MakeTempWorkdir(prefix string) (string, error) {
	base := filepath.Join(os.TempDir(), tempRoot)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return os.MkdirTemp(base, prefix+"-")
}

// SanitizeFilename turns s into a safe file basename: whitespace and
// forbidden characters become underscores, runs collapse, length is capped.
func SanitizeFilename(s string) string {
	const forbidden = `/\:*?"<>|#%{}$!@+^~` + "`" + `=&;[]`
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(forbidden, r) {
			return '_'
		}
		return r
	}, s)
	for strings.Contains(mapped, "__") {
		mapped = strings.ReplaceAll(mapped, "__", "_")
	}
	mapped = strings.Trim(mapped, "._-")

	const maxRunes = 120
	if utf8.RuneCountInString(mapped) > maxRunes {
		mapped = string([]rune(mapped)[:maxRunes])
	}
	if mapped == "" {
		return "untitled"
	}
	return mapped
}

// WriteFile writes data to path, creating parent directories. The content is
// written to a sibling temp file first and renamed into place.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
