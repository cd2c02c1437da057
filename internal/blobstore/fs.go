package blobstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FS serves blobs from a directory tree
type FS struct {
	root string
}

// NewFS creates a store rooted at dir
func NewFS(dir string) *FS {
	return &FS{root: dir}
}

func (s *FS) Name() string {
	return "fs:" + s.root
}

func (s *FS) Get(_ context.Context, key string) ([]byte, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	return data, err
}
