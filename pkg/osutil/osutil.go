// Package osutil provides small filesystem helpers shared across skillet:
// existence checks and home-directory expansion for link sources.
package osutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Exists reports whether a file or directory is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ExpandHome replaces a leading "~" or "~/" in path with the supplied home
// directory. The home directory is injected rather than read from the
// environment so callers control it and tests can use a sandbox.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
