package repository

import (
	"context"
	"io"
)

// ObjectStorage defines the interface for binary asset storage.
// Implementations are provided by the infrastructure layer (MinIO).
type ObjectStorage interface {
	// Upload stores an object under the given key.
	// size may be -1 when the length is unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves an object. Caller closes the returned reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the externally reachable URL for a stored object.
	PublicURL(key string) string
}
