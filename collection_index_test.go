package shelfstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// newTestRedis starts a miniredis instance and returns a client bound to it.
// Shared by the index, repository and service tests in this package.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), UnstableResp3: true})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCollectionIndex_AddAndMembers(t *testing.T) {
	client := newTestRedis(t)
	idx := NewCollectionIndex(client)
	ctx := context.Background()

	if err := idx.Add(ctx, "Cart", "Cart:c1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := idx.Add(ctx, "Cart", "Cart:c2"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	// SADD is idempotent
	if err := idx.Add(ctx, "Cart", "Cart:c1"); err != nil {
		t.Fatalf("re-add failed: %v", err)
	}

	members, err := idx.Members(ctx, "Cart")
	if err != nil {
		t.Fatalf("members failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("expected 2 members, got %d: %v", len(members), members)
	}
}

func TestCollectionIndex_Count(t *testing.T) {
	client := newTestRedis(t)
	idx := NewCollectionIndex(client)
	ctx := context.Background()

	n, err := idx.Count(ctx, "Cart")
	if err != nil || n != 0 {
		t.Fatalf("empty collection: n=%d err=%v", n, err)
	}

	idx.Add(ctx, "Cart", "Cart:c1")
	idx.Add(ctx, "Cart", "Cart:c2")

	n, err = idx.Count(ctx, "Cart")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestCollectionIndex_CountFailure(t *testing.T) {
	client := newTestRedis(t)
	idx := NewCollectionIndex(client)
	ctx := context.Background()

	// Sets and strings collide: SCARD against a string key errors
	client.Set(ctx, "Cart", "not-a-set", 0)

	n, err := idx.Count(ctx, "Cart")
	if err == nil {
		t.Fatalf("expected error for wrong key type")
	}
	if n != -1 {
		t.Errorf("failed count must return -1, got %d", n)
	}
}

func TestCollectionIndex_Remove(t *testing.T) {
	client := newTestRedis(t)
	idx := NewCollectionIndex(client)
	ctx := context.Background()

	idx.Add(ctx, "Cart", "Cart:c1")

	removed, err := idx.Remove(ctx, "Cart", "Cart:c1")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}

	// Second removal finds nothing
	removed, err = idx.Remove(ctx, "Cart", "Cart:c1")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 removed, got %d", removed)
	}
}

func TestCollectionIndex_Drop(t *testing.T) {
	client := newTestRedis(t)
	idx := NewCollectionIndex(client)
	ctx := context.Background()

	dropped, err := idx.Drop(ctx, "Cart")
	if err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if dropped {
		t.Errorf("dropping a missing set must report false")
	}

	idx.Add(ctx, "Cart", "Cart:c1")
	dropped, err = idx.Drop(ctx, "Cart")
	if err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if !dropped {
		t.Errorf("dropping an existing set must report true")
	}

	n, _ := idx.Count(ctx, "Cart")
	if n != 0 {
		t.Errorf("set should be empty after drop, got %d", n)
	}
}
