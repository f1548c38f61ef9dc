// Package shelfstore implements a document-store repository layer for a
// bookstore directly on Redis Stack primitives (RedisJSON documents, sets,
// hashes, RediSearch indexes), without an ORM.
//
// # Overview
//
// Redis has no native tabular schema, so shelfstore rebuilds the pieces a
// conventional database would provide:
//
//   - Whole-document CRUD over RedisJSON (one JSON blob per "<Type>:<id>" key)
//   - A membership set per entity type, so findAll/count work without a scan
//   - Application-maintained secondary indexes (hash: owner id -> cart id)
//   - Atomic sub-document array mutation (JSON.ARRAPPEND / JSON.ARRPOP)
//   - Idempotent provisioning of a RediSearch index and an autocomplete
//     suggestion dictionary at startup
//
// # Quick Start
//
//	client := redis.NewClient(shelfstore.RedisOptions())
//	backend := shelfstore.NewRedisJSONBackend(client)
//	docs := shelfstore.NewDocStore(backend)
//
//	carts := shelfstore.NewCartRepository(docs,
//		shelfstore.NewCollectionIndex(client),
//		shelfstore.NewSecondaryIndex(client))
//
//	cart, _ := carts.Save(ctx, &shelfstore.Cart{UserID: "u1"})
//	found, _ := carts.FindByUserID(ctx, "u1")
//
// # Consistency model
//
// A document write and its membership-set update are two separate Redis
// commands with no cross-command atomicity. A crash between them can leave a
// document without set coverage (or the reverse). findAll tolerates this by
// skipping set members whose document is gone. The same gap applies to
// secondary-index maintenance and to delete. Callers that need stronger
// guarantees must wrap the pair in a MULTI/EXEC themselves.
//
// Sub-document mutation is atomic per command, but "read the cart, find the
// item's index, pop by index" is not: concurrent mutators on the same cart
// can pop a different element than intended. There is no per-document lock.
//
// # Error handling
//
// Absence is not an error: repository Find* methods return a nil entity.
// Lower layers use sentinel errors (ErrNotFound, ErrStructural, ErrTimeout,
// ErrPoolExhausted, ErrInterrupted) checked with errors.Is; ClassifyRedisErr
// maps go-redis failures onto the taxonomy.
package shelfstore
