package shelfstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// CollectionIndex maintains a Redis set of document keys per entity type,
// standing in for the "list all rows" a real table would give. The invariant
// is caller-maintained: every document write is followed by Add and every
// delete by Remove in the same logical operation. The two commands are not
// atomic together; a crash between them leaves the set out of sync with the
// documents, which readers must tolerate (and which FindAll does).
type CollectionIndex struct {
	client  *redis.Client
	logger  Logger
	metrics Metrics
}

// NewCollectionIndex creates an index with no-op logger and metrics
func NewCollectionIndex(client *redis.Client) *CollectionIndex {
	return &CollectionIndex{
		client:  client,
		logger:  &NoOpLogger{},
		metrics: &NoOpMetrics{},
	}
}

// NewCollectionIndexWithObservability creates an index with logging and metrics
func NewCollectionIndexWithObservability(client *redis.Client, logger Logger, metrics Metrics) *CollectionIndex {
	return &CollectionIndex{
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

// Add records memberKey in the collection. SADD is idempotent.
func (c *CollectionIndex) Add(ctx context.Context, collectionKey, memberKey string) error {
	if err := c.client.SAdd(ctx, collectionKey, memberKey).Err(); err != nil {
		c.metrics.Increment(MetricCollectionAddError)
		return ClassifyRedisErr(err)
	}
	return nil
}

// Remove drops memberKey from the collection and returns how many members
// the backend actually removed (zero when the key was already absent).
func (c *CollectionIndex) Remove(ctx context.Context, collectionKey, memberKey string) (int64, error) {
	removed, err := c.client.SRem(ctx, collectionKey, memberKey).Result()
	if err != nil {
		c.metrics.Increment(MetricCollectionRemoveError)
		return 0, ClassifyRedisErr(err)
	}
	return removed, nil
}

// Members returns all document keys in the collection
func (c *CollectionIndex) Members(ctx context.Context, collectionKey string) ([]string, error) {
	members, err := c.client.SMembers(ctx, collectionKey).Result()
	if err != nil {
		return nil, ClassifyRedisErr(err)
	}
	return members, nil
}

// Count returns the collection size. When the size query fails it returns
// -1 with the error: "unknown", never a false zero that downstream code
// could read as an empty collection.
func (c *CollectionIndex) Count(ctx context.Context, collectionKey string) (int64, error) {
	size, err := c.client.SCard(ctx, collectionKey).Result()
	if err != nil {
		c.metrics.Increment(MetricCollectionCountError)
		return -1, ClassifyRedisErr(err)
	}
	return size, nil
}

// Drop deletes the whole collection set. Returns false when the set did not
// exist. The member documents are untouched.
func (c *CollectionIndex) Drop(ctx context.Context, collectionKey string) (bool, error) {
	deleted, err := c.client.Del(ctx, collectionKey).Result()
	if err != nil {
		return false, ClassifyRedisErr(err)
	}
	return deleted > 0, nil
}
