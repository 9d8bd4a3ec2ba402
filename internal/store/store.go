// Package store defines the resume store and its flat-directory implementation.
package store

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates a resume that is not in the store.
var ErrNotFound = errors.New("resume not found")

// ErrInvalidName indicates a filename that is empty or escapes the store directory.
var ErrInvalidName = errors.New("invalid resume filename")

// ErrUnsupportedExtension indicates a file whose extension the store does not accept.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// Store holds uploaded resume documents keyed by filename.
type Store interface {
	// List returns stored filenames sorted ascending.
	List(ctx context.Context) ([]string, error)
	// Read returns the raw bytes of the named resume.
	Read(ctx context.Context, name string) ([]byte, error)
	// Save stores the contents of r under name, replacing any existing file.
	Save(ctx context.Context, name string, r io.Reader) error
	// Delete removes the named resume.
	Delete(ctx context.Context, name string) error
	// Count returns the number of stored resumes.
	Count(ctx context.Context) (int, error)
}
