package config

import (
	"os"
	"path/filepath"
)

// rootMarkers end the upward config file search.
var rootMarkers = []string{".git", "go.mod"}

// findConfigFile looks for a config file in start and then in each parent
// directory, stopping after the first directory that holds a root marker.
// It returns "" when nothing is found.
func findConfigFile(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}

	for {
		for _, name := range configPaths {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
		if isProjectRoot(dir) {
			return ""
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func isProjectRoot(dir string) bool {
	for _, marker := range rootMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
