// Package walker enumerates candidate files under a root path.
package walker

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scan returns the regular files under root in lexicographic order.
// Hidden entries (any path component starting with a dot) are excluded
// at every level. A missing or unreadable root is a warning, not an
// error: the result is simply empty. Per-entry failures are logged and
// skipped so one bad entry never aborts the walk.
func Scan(root string, recursive bool) []string {
	info, err := os.Stat(root)
	if err != nil {
		slog.Warn("Scan root is not accessible", "root", root, "error", err)
		return nil
	}
	if !info.IsDir() {
		slog.Warn("Scan root is not a directory", "root", root)
		return nil
	}

	var files []string
	if recursive {
		files = walkTree(root)
	} else {
		files = listDir(root)
	}

	sort.Strings(files)
	return files
}

func walkTree(root string) []string {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		slog.Warn("Directory walk ended early", "root", root, "error", err)
	}

	return files
}

func listDir(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		slog.Warn("Failed to read directory", "root", root, "error", err)
		return nil
	}

	var files []string
	for _, entry := range entries {
		if isHidden(entry.Name()) || !entry.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(root, entry.Name()))
	}
	return files
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
