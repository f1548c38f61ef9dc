package shelfstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// searchAdmin is the slice of client behavior index provisioning needs.
// Carved out as an interface so the status-check/create decision logic can
// be exercised without a search-capable server.
type searchAdmin interface {
	Info(ctx context.Context, index string) error
	Create(ctx context.Context, index string, schema []*redis.FieldSchema) error
}

// redisSearchAdmin backs searchAdmin with FT.INFO / FT.CREATE
type redisSearchAdmin struct {
	client *redis.Client
}

func (a *redisSearchAdmin) Info(ctx context.Context, index string) error {
	return a.client.FTInfo(ctx, index).Err()
}

func (a *redisSearchAdmin) Create(ctx context.Context, index string, schema []*redis.FieldSchema) error {
	options := &redis.FTCreateOptions{
		OnJSON: true,
		Prefix: []interface{}{BookTypeName + ":"},
	}
	return a.client.FTCreate(ctx, index, options, schema...).Err()
}

// SearchIndexProvisioner idempotently ensures the RediSearch index over book
// documents exists. It runs once at startup, before traffic is accepted.
//
// The status check is a two-state decision: FT.INFO succeeding means the
// index exists and nothing else happens; an "Unknown index name" reply means
// it is missing and gets created. Any other failure (query syntax, resource
// exhaustion, connectivity, timeout) aborts startup: running with an
// unindexed search surface is worse than not starting.
type SearchIndexProvisioner struct {
	admin     searchAdmin
	indexName string
	logger    Logger
}

// NewSearchIndexProvisioner creates a provisioner for the given index
func NewSearchIndexProvisioner(client *redis.Client, indexName string, logger Logger) *SearchIndexProvisioner {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &SearchIndexProvisioner{
		admin:     &redisSearchAdmin{client: client},
		indexName: indexName,
		logger:    logger,
	}
}

// EnsureIndex checks the index status and creates it when missing. Safe to
// call any number of times and from racing processes: a "Index already
// exists" reply during creation is success, not failure.
func (p *SearchIndexProvisioner) EnsureIndex(ctx context.Context) error {
	infoCtx, cancel := context.WithTimeout(ctx, DefaultInfoTimeout)
	defer cancel()

	err := p.admin.Info(infoCtx, p.indexName)
	if err == nil {
		p.logger.Info("search index already exists", "index", p.indexName)
		return nil
	}

	if !IsUnknownIndex(err) {
		p.logger.Error("search index status check failed", "index", p.indexName, "error", err)
		return fmt.Errorf("check search index %s: %w", p.indexName, ClassifyRedisErr(err))
	}

	p.logger.Info("search index missing, creating", "index", p.indexName)
	return p.createIndex(ctx)
}

func (p *SearchIndexProvisioner) createIndex(ctx context.Context) error {
	createCtx, cancel := context.WithTimeout(ctx, DefaultCreateTimeout)
	defer cancel()

	err := p.admin.Create(createCtx, p.indexName, bookSearchSchema())
	if err != nil {
		if IsIndexExists(err) {
			// Lost the creation race to a concurrent provisioner
			p.logger.Info("search index created concurrently", "index", p.indexName)
			return nil
		}
		p.logger.Error("search index creation failed", "index", p.indexName, "error", err)
		return fmt.Errorf("create search index %s: %w", p.indexName, ClassifyRedisErr(err))
	}

	p.logger.Info("created search index", "index", p.indexName)
	return nil
}

// bookSearchSchema is the fixed field schema over book documents: sortable
// title, subtitle, description, and one text field per author position up to
// MaxIndexedAuthors.
func bookSearchSchema() []*redis.FieldSchema {
	fields := []*redis.FieldSchema{
		{FieldName: "$.title", As: "title", FieldType: redis.SearchFieldTypeText, Sortable: true},
		{FieldName: "$.subtitle", As: "subtitle", FieldType: redis.SearchFieldTypeText},
		{FieldName: "$.description", As: "description", FieldType: redis.SearchFieldTypeText},
	}
	for i := 0; i < MaxIndexedAuthors; i++ {
		fields = append(fields, &redis.FieldSchema{
			FieldName: fmt.Sprintf("$.authors[%d]", i),
			As:        fmt.Sprintf("authors.[%d]", i),
			FieldType: redis.SearchFieldTypeText,
		})
	}
	return fields
}
