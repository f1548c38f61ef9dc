package shelfstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// SuggestionWeight is the uniform score every author suggestion carries
const SuggestionWeight = 1.0

// SuggestionDictionaryBuilder bulk-populates the author autocomplete
// dictionary from the book collection, once. If the dictionary key already
// exists the build is skipped entirely; otherwise every author string across
// all books is submitted as one FT.SUGADD each, concurrently, and the whole
// batch is awaited under a single generous deadline.
//
// The batch is all-or-nothing: any individual failure, a deadline overrun,
// or caller cancellation fails the bootstrap step. The three classes are
// told apart in the logs but all abort startup.
type SuggestionDictionaryBuilder struct {
	client  *redis.Client
	books   *BookRepository
	key     string
	timeout time.Duration
	logger  Logger
	metrics Metrics
}

// NewSuggestionDictionaryBuilder creates a builder for the given dictionary
// key. A non-positive timeout falls back to DefaultSuggestTimeout.
func NewSuggestionDictionaryBuilder(client *redis.Client, books *BookRepository, key string, timeout time.Duration, logger Logger) *SuggestionDictionaryBuilder {
	if timeout <= 0 {
		timeout = DefaultSuggestTimeout
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &SuggestionDictionaryBuilder{
		client:  client,
		books:   books,
		key:     key,
		timeout: timeout,
		logger:  logger,
		metrics: &NoOpMetrics{},
	}
}

// WithMetrics sets the metrics collector
func (b *SuggestionDictionaryBuilder) WithMetrics(metrics Metrics) *SuggestionDictionaryBuilder {
	b.metrics = metrics
	return b
}

// Build populates the dictionary unless it already exists
func (b *SuggestionDictionaryBuilder) Build(ctx context.Context) error {
	n, err := b.client.Exists(ctx, b.key).Result()
	if err != nil {
		return fmt.Errorf("check autocomplete key %s: %w", b.key, ClassifyRedisErr(err))
	}
	if n > 0 {
		b.logger.Info("autocomplete dictionary already exists, skipping population", "key", b.key)
		return nil
	}

	b.logger.Info("autocomplete dictionary missing, populating", "key", b.key)

	books, err := b.books.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load books for suggestions: %w", err)
	}

	batchCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(batchCtx)
	submitted := 0
	for _, book := range books {
		for _, author := range book.Authors {
			if author == "" {
				continue
			}
			submitted++
			author := author
			g.Go(func() error {
				err := b.client.Do(gctx, "FT.SUGADD", b.key, author, SuggestionWeight).Err()
				if err != nil {
					return fmt.Errorf("sugadd %q: %w", author, err)
				}
				b.metrics.Increment(MetricSuggestAdds)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		b.metrics.Increment(MetricSuggestBuildErrors)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			b.logger.Error("suggestion population timed out", "key", b.key, "timeout", b.timeout, "error", err)
			return fmt.Errorf("populate suggestions %s: %w", b.key, ErrTimeout)
		case errors.Is(err, context.Canceled):
			b.logger.Error("suggestion population interrupted", "key", b.key, "error", err)
			return fmt.Errorf("populate suggestions %s: %w", b.key, ErrInterrupted)
		default:
			b.logger.Error("suggestion population failed", "key", b.key, "error", err)
			return fmt.Errorf("populate suggestions %s: %w", b.key, ClassifyRedisErr(err))
		}
	}

	b.logger.Info("populated autocomplete dictionary", "key", b.key, "suggestions", submitted)
	return nil
}
