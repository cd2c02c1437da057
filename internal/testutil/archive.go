package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteArchive writes archive files below a temporary root and returns the root.
// Keys are slash separated paths relative to the root.
func WriteArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create archive dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write archive file: %v", err)
		}
	}
	return root
}
