package shelfstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisJSONBackend implements DocumentBackend on RedisJSON commands.
// Every document lives as one JSON value at its key; sub-document array
// operations map to JSON.ARRAPPEND / JSON.ARRPOP so the rest of the document
// never crosses the wire.
type RedisJSONBackend struct {
	client *redis.Client
}

// NewRedisJSONBackend creates a backend on an existing client. The client's
// lifecycle belongs to the caller; Close here is a no-op so a shared client
// is not torn down underneath other components.
func NewRedisJSONBackend(client *redis.Client) *RedisJSONBackend {
	return &RedisJSONBackend{client: client}
}

// rootPath addresses the whole document, matching the key-naming contract
// that one key holds exactly one JSON document.
const rootPath = "$"

func (b *RedisJSONBackend) Put(ctx context.Context, key string, data []byte) error {
	if err := b.client.JSONSet(ctx, key, rootPath, data).Err(); err != nil {
		return ClassifyRedisErr(err)
	}
	return nil
}

func (b *RedisJSONBackend) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := b.client.JSONGet(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, ClassifyRedisErr(err)
	}
	return []byte(raw), nil
}

// MGet batches reads with JSON.MGET at the root path. The reply carries one
// slot per key; a nil slot means the key holds no document.
func (b *RedisJSONBackend) MGet(ctx context.Context, keys ...string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}

	slots, err := b.client.JSONMGet(ctx, rootPath, keys...).Result()
	if err != nil {
		return nil, ClassifyRedisErr(err)
	}

	out := make([][]byte, len(keys))
	for i, slot := range slots {
		if i >= len(out) {
			break
		}
		raw, ok := slot.(string)
		if !ok || raw == "" {
			continue
		}
		// With the "$" path each present slot is a one-element JSON array
		// wrapping the document.
		var matches []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &matches); err != nil || len(matches) == 0 {
			continue
		}
		out[i] = matches[0]
	}
	return out, nil
}

func (b *RedisJSONBackend) Delete(ctx context.Context, key string) error {
	// DEL of a missing key returns 0, not an error
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return ClassifyRedisErr(err)
	}
	return nil
}

func (b *RedisJSONBackend) Exists(ctx context.Context, key string) (bool, error) {
	n, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, ClassifyRedisErr(err)
	}
	return n > 0, nil
}

// ArrAppend atomically appends one element to the array at path. The element
// is accepted as opaque JSON.
func (b *RedisJSONBackend) ArrAppend(ctx context.Context, key, path string, elem []byte) error {
	lengths, err := b.client.JSONArrAppend(ctx, key, path, elem).Result()
	if err != nil {
		if isMissingKeyOrPath(err) {
			return fmt.Errorf("%w: %s %s", ErrNotFound, key, path)
		}
		return ClassifyRedisErr(err)
	}
	// A JSONPath that matches nothing is an empty reply, not a server error
	if len(lengths) == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, key, path)
	}
	return nil
}

// ArrPopAt atomically removes and returns the element at index from the
// array at path. The caller computes index from its own fresh read; the
// read-then-pop sequence is not atomic across calls.
func (b *RedisJSONBackend) ArrPopAt(ctx context.Context, key, path string, index int) ([]byte, error) {
	popped, err := b.client.JSONArrPop(ctx, key, path, index).Result()
	if err != nil {
		if isMissingKeyOrPath(err) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, key, path)
		}
		return nil, ClassifyRedisErr(err)
	}
	if len(popped) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, key, path)
	}
	return []byte(popped[0]), nil
}

func (b *RedisJSONBackend) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return ClassifyRedisErr(err)
	}
	return nil
}

// Close is a no-op; the redis client handle is owned by the caller.
func (b *RedisJSONBackend) Close() error {
	return nil
}
