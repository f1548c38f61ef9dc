package shelfstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DocStore provides typed whole-document operations on top of a
// DocumentBackend. Serialization is schema-agnostic: whatever struct the
// caller hands in round-trips through encoding/json.
//
// DocStore deliberately does not touch membership sets or secondary
// indexes; index maintenance belongs to the composing repository.
type DocStore struct {
	backend DocumentBackend
	logger  Logger
	metrics Metrics
}

// NewDocStore creates a store with no-op logger and metrics
func NewDocStore(backend DocumentBackend) *DocStore {
	return &DocStore{
		backend: backend,
		logger:  &NoOpLogger{},
		metrics: &NoOpMetrics{},
	}
}

// NewDocStoreWithObservability creates a store with logging and metrics
func NewDocStoreWithObservability(backend DocumentBackend, logger Logger, metrics Metrics) *DocStore {
	return &DocStore{
		backend: backend,
		logger:  logger,
		metrics: metrics,
	}
}

// PutJSON marshals and stores a document at key, replacing any prior value
func (s *DocStore) PutJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	start := time.Now()
	err = s.backend.Put(ctx, key, data)
	s.metrics.Timing(MetricDocPutDuration, time.Since(start))

	if err != nil {
		s.metrics.Increment(MetricDocPutError)
		return err
	}

	s.metrics.Increment(MetricDocPutSuccess)
	return nil
}

// GetJSON fetches and unmarshals the document at key.
// Returns ErrNotFound when the key holds no document.
func (s *DocStore) GetJSON(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	data, err := s.backend.Get(ctx, key)
	s.metrics.Timing(MetricDocGetDuration, time.Since(start))

	if err != nil {
		if !IsNotFound(err) {
			s.metrics.Increment(MetricDocGetError)
		}
		return err
	}

	s.metrics.Increment(MetricDocGetSuccess)
	return json.Unmarshal(data, dest)
}

// Delete removes the document at key. Deleting a missing key is a no-op.
func (s *DocStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.backend.Delete(ctx, key)
	s.metrics.Timing(MetricDocDeleteDuration, time.Since(start))

	if err != nil {
		s.metrics.Increment(MetricDocDeleteError)
		return err
	}

	s.metrics.Increment(MetricDocDeleteSuccess)
	return nil
}

// Exists checks if a key holds a document
func (s *DocStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.backend.Exists(ctx, key)
}

// Backend returns the underlying backend, for callers that need the
// sub-document primitives directly.
func (s *DocStore) Backend() DocumentBackend {
	return s.backend
}

// MGetJSON batch-reads documents. The result has one slot per key, in input
// order; a missing document leaves its slot nil. A document that fails to
// deserialize is logged and dropped to a nil slot rather than failing the
// batch — a still-listed key whose document is gone or mangled is treated as
// a dropped record, not an error.
func MGetJSON[T any](ctx context.Context, s *DocStore, keys []string) ([]*T, error) {
	if len(keys) == 0 {
		return []*T{}, nil
	}

	start := time.Now()
	slots, err := s.backend.MGet(ctx, keys...)
	s.metrics.Timing(MetricDocMGetDuration, time.Since(start))
	if err != nil {
		s.metrics.Increment(MetricDocMGetError)
		return nil, err
	}

	out := make([]*T, len(keys))
	for i, data := range slots {
		if data == nil {
			continue
		}
		item := new(T)
		if err := json.Unmarshal(data, item); err != nil {
			s.logger.Warn("skipping undecodable document", "key", keys[i], "error", err)
			continue
		}
		out[i] = item
	}
	return out, nil
}
