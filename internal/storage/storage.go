// Package storage persists uploaded attachment bytes under flat names.
package storage

import (
	"context"
	"io"
)

// Storage is a flat namespace of files addressed by already-sanitized names.
type Storage interface {
	// Put writes r under name, replacing any existing file of that name.
	Put(ctx context.Context, name string, r io.Reader, size int64) error

	// Open returns the file contents. The caller closes the reader.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes name. Missing files are not an error.
	Delete(ctx context.Context, name string) error
}
