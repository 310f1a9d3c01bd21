package service

import (
	"context"
	"io"
)

// BlobStore abstracts the bucket holding attachment bytes. Keys are opaque;
// the attachment repository row is the only index.
type BlobStore interface {
	// Write stores the reader's bytes under key.
	Write(ctx context.Context, key, contentType string, r io.Reader) error

	// Read opens the blob stored under key. The caller closes the reader.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob stored under key.
	Delete(ctx context.Context, key string) error
}
