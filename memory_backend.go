package shelfstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MemoryBackend implements DocumentBackend in process memory. It exists for
// tests and local development; semantics mirror RedisJSONBackend, including
// atomic per-document array mutation.
type MemoryBackend struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	locks *StripedLocks
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		docs:  make(map[string][]byte),
		locks: NewStripedLocks(32),
	}
}

func (b *MemoryBackend) Put(ctx context.Context, key string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	b.mu.Lock()
	b.docs[key] = cp
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	data, ok := b.docs[key]
	b.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (b *MemoryBackend) MGet(ctx context.Context, keys ...string) ([][]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([][]byte, len(keys))
	for i, key := range keys {
		if data, ok := b.docs[key]; ok {
			cp := make([]byte, len(data))
			copy(cp, data)
			out[i] = cp
		}
	}
	return out, nil
}

func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	delete(b.docs, key)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	_, ok := b.docs[key]
	b.mu.RUnlock()
	return ok, nil
}

// ArrAppend appends elem to the array at path inside the stored document.
// The striped lock makes the read-modify-write atomic per key, matching the
// single-command atomicity of JSON.ARRAPPEND.
func (b *MemoryBackend) ArrAppend(ctx context.Context, key, path string, elem []byte) error {
	unlock := b.locks.Lock(key)
	defer unlock()

	doc, field, err := b.loadField(key, path)
	if err != nil {
		return err
	}

	raw, ok := doc[field]
	if !ok || len(raw) == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, key, path)
	}
	// A JSON null at the path is not an array; RedisJSON refuses to append
	// to it and so does this double
	if string(raw) == "null" {
		return fmt.Errorf("%w: %s is not an array at %s", ErrStructural, field, key)
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return fmt.Errorf("%w: %s is not an array at %s", ErrStructural, field, key)
	}

	arr = append(arr, json.RawMessage(elem))
	return b.storeField(key, doc, field, arr)
}

// ArrPopAt removes and returns the element at index from the array at path.
func (b *MemoryBackend) ArrPopAt(ctx context.Context, key, path string, index int) ([]byte, error) {
	unlock := b.locks.Lock(key)
	defer unlock()

	doc, field, err := b.loadField(key, path)
	if err != nil {
		return nil, err
	}

	raw, ok := doc[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, key, path)
	}
	if string(raw) == "null" {
		return nil, fmt.Errorf("%w: %s is not an array at %s", ErrStructural, field, key)
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("%w: %s is not an array at %s", ErrStructural, field, key)
	}
	// Negative index counts from the end, as JSON.ARRPOP does
	if index < 0 {
		index += len(arr)
	}
	if index < 0 || index >= len(arr) {
		return nil, fmt.Errorf("%w: index %d out of range at %s %s", ErrNotFound, index, key, path)
	}

	popped := arr[index]
	arr = append(arr[:index], arr[index+1:]...)
	if err := b.storeField(key, doc, field, arr); err != nil {
		return nil, err
	}
	return popped, nil
}

func (b *MemoryBackend) Ping(ctx context.Context) error {
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}

// loadField parses the stored document into a field map and resolves the
// single-segment JSON path. Only "$.field" / ".field" paths are supported;
// the repositories never form deeper ones.
func (b *MemoryBackend) loadField(key, path string) (map[string]json.RawMessage, string, error) {
	field := strings.TrimPrefix(strings.TrimPrefix(path, "$"), ".")
	if field == "" || strings.ContainsAny(field, ".[") {
		return nil, "", fmt.Errorf("%w: unsupported path %q", ErrStructural, path)
	}

	b.mu.RLock()
	data, ok := b.docs[key]
	b.mu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("%w: document at %s is not an object", ErrStructural, key)
	}
	return doc, field, nil
}

func (b *MemoryBackend) storeField(key string, doc map[string]json.RawMessage, field string, arr []json.RawMessage) error {
	raw, err := json.Marshal(arr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStructural, err)
	}
	doc[field] = raw

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStructural, err)
	}

	b.mu.Lock()
	b.docs[key] = data
	b.mu.Unlock()
	return nil
}
