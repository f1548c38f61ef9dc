package shelfstore

import (
	"context"
	"fmt"
)

// DocumentBackend defines the primitive whole-document and sub-document
// operations the repositories are built on. The production implementation is
// RedisJSONBackend; MemoryBackend serves tests and local development.
type DocumentBackend interface {
	// Whole-document operations. Get returns ErrNotFound for a missing key;
	// Delete of a missing key is a no-op.
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// MGet returns one slot per input key, in input order. A missing
	// document yields a nil slot, not an error.
	MGet(ctx context.Context, keys ...string) ([][]byte, error)

	// Sub-document array operations. Both mutate the array at a JSON path
	// inside an existing document without transferring the rest of it, and
	// fail with ErrNotFound when the document or path does not exist.
	// Elements are opaque JSON: no shape validation happens here, so a
	// malformed element only surfaces on a later whole-document read.
	ArrAppend(ctx context.Context, key, path string, elem []byte) error
	ArrPopAt(ctx context.Context, key, path string, index int) ([]byte, error)

	// Health check
	Ping(ctx context.Context) error

	// Resource cleanup
	Close() error
}

// EntityKey builds the document key for an entity: "<Type>:<id>"
func EntityKey(typeName, id string) string {
	return fmt.Sprintf("%s:%s", typeName, id)
}

// CollectionKey is the membership-set key for an entity type. It is the bare
// type name, matching the document-key prefix without the colon.
func CollectionKey(typeName string) string {
	return typeName
}
