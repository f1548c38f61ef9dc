package shelfstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// SecondaryIndex maps a foreign-key value to an entity id through a Redis
// hash: one fixed hash per relationship, field = owner id, value = entity id.
//
// Put unconditionally overwrites: two entities sharing the same field value
// leave the index pointing at whichever was written last. This is
// last-write-wins, not a uniqueness constraint; callers that need true
// uniqueness must check-then-act themselves.
type SecondaryIndex struct {
	client  *redis.Client
	logger  Logger
	metrics Metrics
}

// NewSecondaryIndex creates an index with no-op logger and metrics
func NewSecondaryIndex(client *redis.Client) *SecondaryIndex {
	return &SecondaryIndex{
		client:  client,
		logger:  &NoOpLogger{},
		metrics: &NoOpMetrics{},
	}
}

// NewSecondaryIndexWithObservability creates an index with logging and metrics
func NewSecondaryIndexWithObservability(client *redis.Client, logger Logger, metrics Metrics) *SecondaryIndex {
	return &SecondaryIndex{
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

// Put writes field -> value into the index hash, overwriting any prior entry
func (s *SecondaryIndex) Put(ctx context.Context, indexKey, field, value string) error {
	if err := s.client.HSet(ctx, indexKey, field, value).Err(); err != nil {
		s.metrics.Increment(MetricSecondaryPutError)
		return ClassifyRedisErr(err)
	}
	return nil
}

// Get resolves field to its mapped value. Returns ErrNotFound when no
// mapping exists.
func (s *SecondaryIndex) Get(ctx context.Context, indexKey, field string) (string, error) {
	value, err := s.client.HGet(ctx, indexKey, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		s.metrics.Increment(MetricSecondaryGetError)
		return "", ClassifyRedisErr(err)
	}
	return value, nil
}

// Delete removes the mapping for field, if any
func (s *SecondaryIndex) Delete(ctx context.Context, indexKey, field string) error {
	if err := s.client.HDel(ctx, indexKey, field).Err(); err != nil {
		return ClassifyRedisErr(err)
	}
	return nil
}
