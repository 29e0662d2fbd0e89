// Package storage persists uploaded media files.
package storage

import "context"

// FileStore reads and writes media files by storage path.
type FileStore interface {
	// Save writes data under the given path and returns the stored path.
	Save(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// Download reads the full contents of the file at path.
	Download(ctx context.Context, path string) ([]byte, error)
	// Exists reports whether a file is present at path.
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes the file at path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
}
