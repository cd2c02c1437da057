// Package blobstore reads immutable content blobs (area bundles, images) from a
// directory tree or an S3 bucket.
package blobstore

import (
	"context"
	"errors"
	"strings"
)

// ErrBlobNotFound is returned when a key has no blob
var ErrBlobNotFound = errors.New("blob not found")

// ErrInvalidKey is returned for keys that would escape the store root
var ErrInvalidKey = errors.New("invalid blob key")

// Store reads blobs by slash separated key
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Name() string
}

// Open picks a backend for source: an s3:// URL or a directory path
func Open(ctx context.Context, source string) (Store, error) {
	if strings.HasPrefix(source, "s3://") {
		return NewS3(ctx, source)
	}
	return NewFS(source), nil
}

// cleanKey rejects empty, absolute and parent-relative keys
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}
