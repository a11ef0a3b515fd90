// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when a requested object key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Storage is the interface for storing and retrieving blobs.
type Storage interface {
	// Upload streams data to the store under the given key, overwriting any
	// existing object. size must be the exact byte count (pass -1 only if the
	// size is genuinely unknown).
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Get returns the raw bytes stored under key, or ErrObjectNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object identified by key. Deleting a missing key
	// succeeds (S3 semantics).
	Delete(ctx context.Context, key string) error
	// ListKeys calls fn for every object key in the bucket, fetching pages
	// lazily. Iteration stops at the first error fn returns. Intended for
	// maintenance tooling, not the request path.
	ListKeys(ctx context.Context, fn func(key string) error) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}
