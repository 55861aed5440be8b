// Package storage holds document blobs behind a narrow put/get/delete
// contract keyed by an opaque string.
package storage

import "context"

type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
