package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "yt2blog"

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// ConfigDir returns the app's configuration directory.
// - Linux: $XDG_CONFIG_HOME/yt2blog or ~/.config/yt2blog
// - macOS: ~/Library/Application Support/yt2blog
// - Windows: os.UserConfigDir()/yt2blog
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config", os.UserConfigDir)
}

// DataDir returns the app's data directory.
// - Linux: $XDG_DATA_HOME/yt2blog or ~/.local/share/yt2blog
// - macOS: ~/Library/Application Support/yt2blog
// - Windows: os.UserConfigDir()/yt2blog
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"), os.UserConfigDir)
}

// DefaultOutputDir is where the TUI saves blogs when no --out-dir is given.
func DefaultOutputDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "blogs"), nil
}

// ConfigFile returns the path of the YAML config file yt2blog reads.
func ConfigFile() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

func xdgDir(env, homeRel string, fallback func() (string, error)) (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "linux":
		if x := os.Getenv(env); x != "" {
			return filepath.Join(x, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, homeRel, appName), nil
	default:
		base, err := fallback()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, appName), nil
	}
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}
