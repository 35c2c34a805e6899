package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "untitled"},
		{"MeyePX5x2Pw", "MeyePX5x2Pw"},
		{"a b\tc", "a_b_c"},
		{"what?/is:this*", "what_is_this"},
		{"__..--", "untitled"},
		{"héllo wörld", "héllo_wörld"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	long := SanitizeFilename(strings.Repeat("é", 500))
	if n := len([]rune(long)); n != 120 {
		t.Errorf("long name has %d runes, want 120", n)
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "blog.md")

	if err := WriteFile(path, []byte("# Title\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "# Title\n" {
		t.Errorf("content = %q", got)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the final file, found %d entries", len(entries))
	}
}

func TestIsYouTubeURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://m.youtube.com/watch?v=abc", true},
		{"youtube.com/watch?v=abc", true},
		{"https://youtu.be/abc", true},
		{"https://vimeo.com/123", false},
		{"not a url at all", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsYouTubeURL(tt.in); got != tt.want {
			t.Errorf("IsYouTubeURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShellQuote(t *testing.T) {
	got := shellQuote("yt-dlp", []string{"--sub-langs", "en", "-o", "%(id)s.%(ext)s", ""})
	want := "yt-dlp --sub-langs en -o '%(id)s.%(ext)s' ''"
	if got != want {
		t.Errorf("shellQuote = %q, want %q", got, want)
	}
}
