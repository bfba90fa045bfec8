package common

import (
	"os"
	"path/filepath"
)

// CacheDir is where rendered files go when no output path is given.
func CacheDir() string {
	return filepath.Join(cacheHome(), "scales")
}

// https://specifications.freedesktop.org/basedir/latest/#variables
func cacheHome() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".cache")
	}
	return dir
}
