// Package storage abstracts where cached reel audio lives: a local cache
// directory for single-machine use, or an S3 bucket when a team shares
// one cache across machines. Paths are forward-slash separated and
// relative to the store root. Implementations are safe for concurrent
// use.
package storage

import (
	"context"
	"io"
	"strings"
)

// FileStore is the minimal file surface the audio cache needs.
type FileStore interface {
	// Read opens the named file for reading. The caller closes the
	// returned reader. A missing file yields an error wrapping
	// os.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing, truncating any existing
	// content and creating parents as needed. The caller must close the
	// writer to flush.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file; removing a missing file is not an
	// error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// IsS3URL reports whether root names an S3 location (s3://bucket/prefix).
func IsS3URL(root string) bool {
	return strings.HasPrefix(root, "s3://")
}

// SplitS3URL splits "s3://bucket/prefix" into bucket and prefix. The
// prefix may be empty.
func SplitS3URL(url string) (bucket, prefix string) {
	rest := strings.TrimPrefix(url, "s3://")
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.TrimSuffix(prefix, "/")
}
