package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrFileNotFound is returned by Download for missing keys. Delete treats a
// missing key as already deleted.
var ErrFileNotFound = errors.New("file not found")

// DefaultURLExpiry applies when GetURL is called with a zero expiry on a
// backend that signs URLs.
const DefaultURLExpiry = 15 * time.Minute

type FileStorage interface {
	// Upload uploads a file and returns the file path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// GetURL generates a presigned/public URL
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
