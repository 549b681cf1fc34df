// ABOUTME: Standard filesystem paths for fossintosh configuration, logs, and downloads
// ABOUTME: Resolves ~/.fossintosh/ for global state and ~/Downloads for artifacts

package config

import (
	"os"
	"path/filepath"
	"strings"
)

const globalDirName = ".fossintosh"

// GlobalDir returns the user-global config directory (~/.fossintosh/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// LogFile returns the default log file used by the interactive mode.
func LogFile() string {
	return filepath.Join(GlobalDir(), "fossintosh.log")
}

// DownloadsDir returns ~/Downloads, where the backend stores artifacts.
func DownloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Downloads"
	}
	return filepath.Join(home, "Downloads")
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}

// expandHome replaces a leading "~" or "~/" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
