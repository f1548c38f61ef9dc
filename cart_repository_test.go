package shelfstore

import (
	"bytes"
	"context"
	"testing"
)

type cartFixture struct {
	repo    *CartRepository
	backend *MemoryBackend
	docs    *DocStore
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	client := newTestRedis(t)
	backend := NewMemoryBackend()
	docs := NewDocStore(backend)
	repo := NewCartRepository(docs, NewCollectionIndex(client), NewSecondaryIndex(client))
	return &cartFixture{repo: repo, backend: backend, docs: docs}
}

func TestCartRepository_SaveAssignsID(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	saved, err := f.repo.Save(ctx, &Cart{UserID: "u1"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("save must assign an id")
	}
	if !IsValidID(saved.ID) {
		t.Errorf("assigned id is not a uuid: %s", saved.ID)
	}

	// A cart that already has an id keeps it
	saved2, err := f.repo.Save(ctx, &Cart{ID: "fixed-id", UserID: "u2"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved2.ID != "fixed-id" {
		t.Errorf("existing id must be kept, got %s", saved2.ID)
	}
}

func TestCartRepository_SaveNormalizesNilItems(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	saved, err := f.repo.Save(ctx, &Cart{UserID: "u1"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.CartItems == nil {
		t.Errorf("nil items must normalize to an empty slice")
	}

	// The stored document must carry an empty array, never JSON null:
	// JSON.ARRAPPEND cannot append to null
	data, err := f.backend.Get(ctx, EntityKey(CartTypeName, saved.ID))
	if err != nil {
		t.Fatalf("raw read failed: %v", err)
	}
	if !bytes.Contains(data, []byte(`"cartItems":[]`)) {
		t.Fatalf("expected empty items array in document, got %s", data)
	}

	item := []byte(`{"isbn":"978-1","price":9.99,"quantity":1}`)
	if err := f.backend.ArrAppend(ctx, EntityKey(CartTypeName, saved.ID), "$.cartItems", item); err != nil {
		t.Errorf("append to freshly saved cart failed: %v", err)
	}
}

func TestCartRepository_RoundTrip(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	saved, err := f.repo.Save(ctx, &Cart{
		UserID:    "u1",
		CartItems: []CartItem{{ISBN: "978-1", Price: 9.99, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := f.repo.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got == nil {
		t.Fatalf("cart not found after save")
	}
	if got.UserID != "u1" || len(got.CartItems) != 1 || got.CartItems[0].ISBN != "978-1" {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	ok, err := f.repo.ExistsByID(ctx, saved.ID)
	if err != nil || !ok {
		t.Errorf("exists check failed: ok=%v err=%v", ok, err)
	}
}

func TestCartRepository_FindByIDMissing(t *testing.T) {
	f := newCartFixture(t)

	got, err := f.repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absence must not be an error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil cart, got %+v", got)
	}
}

func TestCartRepository_CountTracksMembership(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	n, err := f.repo.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("empty count: n=%d err=%v", n, err)
	}

	c1, _ := f.repo.Save(ctx, &Cart{UserID: "u1"})
	f.repo.Save(ctx, &Cart{UserID: "u2"})

	n, err = f.repo.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 after saves, got %d", n)
	}

	if err := f.repo.DeleteByID(ctx, c1.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	n, _ = f.repo.Count(ctx)
	if n != 1 {
		t.Errorf("expected 1 after delete, got %d", n)
	}
}

func TestCartRepository_OverwriteKeepsCount(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	saved, _ := f.repo.Save(ctx, &Cart{UserID: "u1"})

	// Saving the same id again overwrites the document; the membership set
	// entry is already present, so the count must not move
	saved.CartItems = []CartItem{{ISBN: "978-1", Quantity: 1}}
	if _, err := f.repo.Save(ctx, saved); err != nil {
		t.Fatalf("overwrite save failed: %v", err)
	}

	n, err := f.repo.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("overwrite must not grow the collection, got %d", n)
	}

	got, _ := f.repo.FindByID(ctx, saved.ID)
	if len(got.CartItems) != 1 {
		t.Errorf("overwrite lost the new document state: %+v", got)
	}
}

func TestCartRepository_FindAll(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	c1, _ := f.repo.Save(ctx, &Cart{UserID: "u1"})
	c2, _ := f.repo.Save(ctx, &Cart{UserID: "u2"})

	carts, err := f.repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all failed: %v", err)
	}
	if len(carts) != 2 {
		t.Fatalf("expected 2 carts, got %d", len(carts))
	}

	// A set entry whose document vanished is skipped, not an error
	f.docs.Delete(ctx, EntityKey(CartTypeName, c1.ID))
	carts, err = f.repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all failed: %v", err)
	}
	if len(carts) != 1 || carts[0].ID != c2.ID {
		t.Errorf("expected only %s, got %d carts", c2.ID, len(carts))
	}
}

func TestCartRepository_FindAllByID(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	c1, _ := f.repo.Save(ctx, &Cart{UserID: "u1"})

	carts, err := f.repo.FindAllByID(ctx, []string{c1.ID, "missing"})
	if err != nil {
		t.Fatalf("find all by id failed: %v", err)
	}
	if len(carts) != 1 || carts[0].ID != c1.ID {
		t.Errorf("expected just %s, got %+v", c1.ID, carts)
	}
}

func TestCartRepository_FindByUserID(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	got, err := f.repo.FindByUserID(ctx, "u1")
	if err != nil || got != nil {
		t.Fatalf("unmapped user: cart=%+v err=%v", got, err)
	}

	saved, _ := f.repo.Save(ctx, &Cart{UserID: "u1"})

	got, err = f.repo.FindByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("find by user failed: %v", err)
	}
	if got == nil || got.ID != saved.ID {
		t.Errorf("expected cart %s, got %+v", saved.ID, got)
	}
}

func TestCartRepository_UserIndexLastWriteWins(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	first, _ := f.repo.Save(ctx, &Cart{UserID: "u1"})
	second, _ := f.repo.Save(ctx, &Cart{UserID: "u1"})

	// The index points at the newest cart; both documents still exist
	got, err := f.repo.FindByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("find by user failed: %v", err)
	}
	if got == nil || got.ID != second.ID {
		t.Errorf("expected newest cart %s, got %+v", second.ID, got)
	}
	if c, _ := f.repo.FindByID(ctx, first.ID); c == nil {
		t.Errorf("older cart document must survive the index overwrite")
	}
}

func TestCartRepository_DeleteLeavesUserIndex(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	saved, _ := f.repo.Save(ctx, &Cart{UserID: "u1"})
	if err := f.repo.DeleteByID(ctx, saved.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// The stale mapping resolves to a missing document, yielding nil
	got, err := f.repo.FindByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("find by user failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for dangling mapping, got %+v", got)
	}
}

func TestCartRepository_DeleteByIDIdempotent(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	saved, _ := f.repo.Save(ctx, &Cart{UserID: "u1"})
	if err := f.repo.DeleteByID(ctx, saved.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	// Second delete hits a missing document and an absent set entry
	if err := f.repo.DeleteByID(ctx, saved.ID); err != nil {
		t.Errorf("repeated delete must not fail, got %v", err)
	}
}

func TestCartRepository_DeleteAllDropsOnlyTheSet(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	saved, _ := f.repo.Save(ctx, &Cart{UserID: "u1"})

	if err := f.repo.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all failed: %v", err)
	}

	n, _ := f.repo.Count(ctx)
	if n != 0 {
		t.Errorf("membership set must be empty, got %d", n)
	}

	// The documents themselves are untouched
	got, err := f.repo.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got == nil {
		t.Errorf("document must survive DeleteAll")
	}
}

func TestCartRepository_SaveAll(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	saved, err := f.repo.SaveAll(ctx, []*Cart{
		{UserID: "u1"},
		{UserID: "u2"},
		{UserID: "u3"},
	})
	if err != nil {
		t.Fatalf("save all failed: %v", err)
	}
	if len(saved) != 3 {
		t.Fatalf("expected 3 saved, got %d", len(saved))
	}
	for _, c := range saved {
		if c.ID == "" {
			t.Errorf("save all must assign ids")
		}
	}

	n, _ := f.repo.Count(ctx)
	if n != 3 {
		t.Errorf("expected 3 in collection, got %d", n)
	}
}
