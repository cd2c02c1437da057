package reqlog

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DedupeResult summarises a dedupe pass
type DedupeResult struct {
	Files   int
	Kept    int
	Deleted int
	Failed  int
}

// Dedupe walks dir and deletes every recorded request whose key was already
// seen in an earlier file. Files are visited in lexical order, so the oldest
// recording of each request survives. With dryRun set nothing is deleted.
func Dedupe(dir string, dryRun bool) (DedupeResult, error) {
	var result DedupeResult
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (strings.HasSuffix(path, jsonExt) || strings.HasSuffix(path, lz4Ext)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	sort.Strings(files)
	result.Files = len(files)

	seen := make(map[string]string, len(files))
	for _, path := range files {
		entry, err := ReadEntry(path)
		if err != nil {
			slog.Warn("skipping unreadable request file", "path", path, "error", err)
			result.Failed++
			continue
		}

		key := entry.Key()
		if first, dup := seen[key]; dup {
			slog.Info("deleting duplicate", "path", path, "duplicateOf", first)
			if !dryRun {
				if err := os.Remove(path); err != nil {
					slog.Warn("failed to delete duplicate", "path", path, "error", err)
					result.Failed++
					continue
				}
			}
			result.Deleted++
			continue
		}
		seen[key] = path
		result.Kept++
	}
	return result, nil
}
