package shelfstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// BookSearchResult is a page of full-text matches
type BookSearchResult struct {
	Total int64   `json:"total"`
	Books []*Book `json:"books"`
}

// BookSearcher runs full-text queries and author autocomplete against the
// provisioned RediSearch surface. Both are non-critical read paths: a
// missing index or missing dictionary degrades to an empty result instead
// of failing the request, while genuine backend failures still surface.
type BookSearcher struct {
	client    *redis.Client
	indexName string
	sugKey    string
	logger    Logger
	metrics   Metrics
}

// NewBookSearcher creates a searcher over the given index and dictionary
func NewBookSearcher(client *redis.Client, indexName, sugKey string, logger Logger) *BookSearcher {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &BookSearcher{
		client:    client,
		indexName: indexName,
		sugKey:    sugKey,
		logger:    logger,
		metrics:   &NoOpMetrics{},
	}
}

// WithMetrics sets the metrics collector
func (s *BookSearcher) WithMetrics(metrics Metrics) *BookSearcher {
	s.metrics = metrics
	return s
}

// Search runs a full-text query. An absent index logs and returns an empty
// result; every other failure is classified and surfaced.
func (s *BookSearcher) Search(ctx context.Context, query string, limit int) (*BookSearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	s.metrics.Increment(MetricSearchQueries)

	searchCtx, cancel := context.WithTimeout(ctx, DefaultSearchTimeout)
	defer cancel()

	res, err := s.client.FTSearchWithArgs(searchCtx, s.indexName, query, &redis.FTSearchOptions{
		LimitOffset: 0,
		Limit:       limit,
	}).Result()
	if err != nil {
		if IsUnknownIndex(err) {
			s.logger.Error("search index does not exist, degrading to empty result", "index", s.indexName)
			s.metrics.Increment(MetricSearchDegraded)
			return &BookSearchResult{Books: []*Book{}}, nil
		}
		s.metrics.Increment(MetricSearchErrors)
		return nil, fmt.Errorf("search %q on %s: %w", query, s.indexName, ClassifyRedisErr(err))
	}

	out := &BookSearchResult{
		Total: int64(res.Total),
		Books: make([]*Book, 0, len(res.Docs)),
	}
	for _, doc := range res.Docs {
		book := s.decodeDoc(doc)
		if book != nil {
			out.Books = append(out.Books, book)
		}
	}
	return out, nil
}

// decodeDoc turns a search hit back into a Book. JSON indexes return the
// whole document under the "$" field; a hit that cannot be decoded is
// logged and dropped, same as an undecodable multi-get slot.
func (s *BookSearcher) decodeDoc(doc redis.Document) *Book {
	raw, ok := doc.Fields["$"]
	if !ok {
		// Fall back to the key: the document body was not returned
		return &Book{ID: strings.TrimPrefix(doc.ID, BookTypeName+":")}
	}
	var book Book
	if err := json.Unmarshal([]byte(raw), &book); err != nil {
		s.logger.Warn("skipping undecodable search hit", "key", doc.ID, "error", err)
		return nil
	}
	if book.ID == "" {
		book.ID = strings.TrimPrefix(doc.ID, BookTypeName+":")
	}
	return &book
}

// SuggestAuthors returns up to max author-name completions for prefix.
// A dictionary that was never populated yields an empty list; other
// failures surface.
func (s *BookSearcher) SuggestAuthors(ctx context.Context, prefix string, max int) ([]string, error) {
	if max <= 0 {
		max = 20
	}

	sugCtx, cancel := context.WithTimeout(ctx, DefaultSearchTimeout)
	defer cancel()

	suggestions, err := s.client.Do(sugCtx, "FT.SUGGET", s.sugKey, prefix, "MAX", max).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) || isMissingDictionary(err) {
			s.logger.Error("autocomplete dictionary missing, degrading to empty result", "key", s.sugKey)
			s.metrics.Increment(MetricSearchDegraded)
			return []string{}, nil
		}
		s.metrics.Increment(MetricSearchErrors)
		return nil, fmt.Errorf("autocomplete %q on %s: %w", prefix, s.sugKey, ClassifyRedisErr(err))
	}
	return suggestions, nil
}

// isMissingDictionary detects the "unknown key" reply some server versions
// send for FT.SUGGET against a key that was never populated
func isMissingDictionary(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unknown key")
}
