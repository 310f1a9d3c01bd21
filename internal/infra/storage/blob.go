// Package storage backs attachment bytes with a gocloud.dev blob bucket.
package storage

import (
	"context"
	"io"
	"log/slog"

	"classtrack/config"
	"classtrack/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"

	// Bucket URL schemes supported out of the box.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

// blobStore implements the service.BlobStore interface over a blob.Bucket.
type blobStore struct {
	bucket *blob.Bucket
}

// Params holds dependencies for the blob store, injected by Fx.
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket. Without configuration an in-memory
// bucket is used, which only suits development.
func New(params Params) (service.BlobStore, error) {
	bucketURL := "mem://"
	if params.Config.Storage != nil && params.Config.Storage.BucketURL != "" {
		bucketURL = params.Config.Storage.BucketURL
	} else {
		params.Logger.Warn("Blob storage not configured, using in-memory bucket")
	}

	bucket, err := blob.OpenBucket(params.Ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobStore{bucket: bucket}, nil
}

// Write stores the reader's bytes under key.
func (s *blobStore) Write(ctx context.Context, key, contentType string, r io.Reader) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "failed to open bucket writer")
	}

	if _, err := io.Copy(w, r); err != nil {
		// Abort the write; a failed Close after a copy error is expected.
		_ = w.Close()

		return errors.Wrap(err, "failed to copy bytes into bucket")
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(err, "failed to finalize bucket write")
	}

	return nil
}

// Read opens the blob stored under key. The caller closes the reader.
func (s *blobStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bucket reader")
	}

	return r, nil
}

// Delete removes the blob stored under key.
func (s *blobStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return errors.Wrap(err, "failed to delete blob")
	}

	return nil
}
