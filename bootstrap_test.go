package shelfstore

import (
	"context"
	"testing"
	"time"
)

func TestBootstrap_IndexCheckFailureAborts(t *testing.T) {
	client := newTestRedis(t)
	docs := NewDocStore(NewMemoryBackend())
	books := NewBookRepository(docs, NewCollectionIndex(client))

	provisioner := NewSearchIndexProvisioner(client, DefaultSearchIndexName, &NoOpLogger{})
	suggestions := NewSuggestionDictionaryBuilder(client, books, DefaultAutocompleteKey, time.Second, &NoOpLogger{})
	metrics := NewInMemoryMetrics()

	// The test server rejects FT.INFO with a reply that is not the
	// missing-index signal, so the status check must abort startup.
	err := Bootstrap(context.Background(), provisioner, suggestions, &NoOpLogger{}, metrics)
	if err == nil {
		t.Fatalf("expected bootstrap failure")
	}

	// Duration is recorded even on failure
	if len(metrics.Timings[MetricBootstrapDuration]) != 1 {
		t.Errorf("bootstrap duration not recorded")
	}
}

func TestBootstrap_RerunIsIdempotent(t *testing.T) {
	client := newTestRedis(t)
	docs := NewDocStore(NewMemoryBackend())
	books := NewBookRepository(docs, NewCollectionIndex(client))
	ctx := context.Background()

	admin := &fakeSearchAdmin{}
	provisioner := newFakeProvisioner(admin)

	// Dictionary already populated: the suggestion step skips on both runs
	client.Set(ctx, DefaultAutocompleteKey, "populated", 0)
	suggestions := NewSuggestionDictionaryBuilder(client, books, DefaultAutocompleteKey, time.Second, &NoOpLogger{})

	if err := Bootstrap(ctx, provisioner, suggestions, &NoOpLogger{}, nil); err != nil {
		t.Fatalf("first bootstrap failed: %v", err)
	}
	if err := Bootstrap(ctx, provisioner, suggestions, &NoOpLogger{}, nil); err != nil {
		t.Fatalf("second bootstrap must not fail: %v", err)
	}
	if admin.createCalls != 1 {
		t.Errorf("index must be created exactly once, got %d", admin.createCalls)
	}
}

func TestBootstrap_NilObservability(t *testing.T) {
	client := newTestRedis(t)
	docs := NewDocStore(NewMemoryBackend())
	books := NewBookRepository(docs, NewCollectionIndex(client))

	provisioner := NewSearchIndexProvisioner(client, DefaultSearchIndexName, nil)
	suggestions := NewSuggestionDictionaryBuilder(client, books, DefaultAutocompleteKey, time.Second, nil)

	// Nil logger and metrics must not panic
	_ = Bootstrap(context.Background(), provisioner, suggestions, nil, nil)
}

func TestEntityKey(t *testing.T) {
	if got := EntityKey("Cart", "abc"); got != "Cart:abc" {
		t.Errorf("unexpected key: %s", got)
	}
	if got := CollectionKey("Cart"); got != "Cart" {
		t.Errorf("unexpected collection key: %s", got)
	}
}
