package shelfstore

import (
	"context"
	"fmt"
)

// CartRepository composes DocStore, CollectionIndex and SecondaryIndex into
// full CRUD for the Cart aggregate.
//
// Each Save issues three separate commands (JSON write, set add, hash put)
// with no cross-command atomicity; see the package doc for the consistency
// model. The user->cart mapping is last-write-wins: a second cart saved for
// the same user silently takes over FindByUserID while both documents keep
// existing. DeleteByID does not retract the mapping either. Both behaviors
// are deliberate limitations of the index primitive, kept rather than
// papered over.
type CartRepository struct {
	docs        *DocStore
	collections *CollectionIndex
	byUser      *SecondaryIndex
	logger      Logger
}

// NewCartRepository wires the three primitives together
func NewCartRepository(docs *DocStore, collections *CollectionIndex, byUser *SecondaryIndex) *CartRepository {
	return &CartRepository{
		docs:        docs,
		collections: collections,
		byUser:      byUser,
		logger:      &NoOpLogger{},
	}
}

// WithLogger sets the repository logger
func (r *CartRepository) WithLogger(logger Logger) *CartRepository {
	r.logger = logger
	return r
}

// Save persists the cart, assigning a fresh id when it has none, then
// registers the document key in the Cart collection and points the owner's
// secondary-index entry at this cart. Returns the (possibly id-assigned)
// cart.
func (r *CartRepository) Save(ctx context.Context, cart *Cart) (*Cart, error) {
	if cart.ID == "" {
		cart.ID = NewID()
	}
	// The document shape requires cartItems to be an array. A nil slice
	// would serialize as JSON null, which JSON.ARRAPPEND cannot append to.
	if cart.CartItems == nil {
		cart.CartItems = []CartItem{}
	}
	key := EntityKey(CartTypeName, cart.ID)

	if err := r.docs.PutJSON(ctx, key, cart); err != nil {
		return nil, fmt.Errorf("save cart %s: %w", cart.ID, err)
	}
	if err := r.collections.Add(ctx, CollectionKey(CartTypeName), key); err != nil {
		return nil, fmt.Errorf("register cart %s in collection: %w", cart.ID, err)
	}

	r.logger.Info("saved cart", "cartId", cart.ID, "userId", cart.UserID)

	if err := r.byUser.Put(ctx, CartsByUserIndex, cart.UserID, cart.ID); err != nil {
		return nil, fmt.Errorf("index cart %s by user: %w", cart.ID, err)
	}
	return cart, nil
}

// SaveAll persists carts one by one, stopping at the first failure
func (r *CartRepository) SaveAll(ctx context.Context, carts []*Cart) ([]*Cart, error) {
	saved := make([]*Cart, 0, len(carts))
	for _, cart := range carts {
		s, err := r.Save(ctx, cart)
		if err != nil {
			return saved, err
		}
		saved = append(saved, s)
	}
	return saved, nil
}

// FindByID reads the cart document. Absence is a nil cart, not an error.
func (r *CartRepository) FindByID(ctx context.Context, id string) (*Cart, error) {
	var cart Cart
	err := r.docs.GetJSON(ctx, EntityKey(CartTypeName, id), &cart)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find cart %s: %w", id, err)
	}
	return &cart, nil
}

// ExistsByID checks for the cart document without reading it
func (r *CartRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.docs.Exists(ctx, EntityKey(CartTypeName, id))
}

// FindAll lists every cart: membership-set keys, then one batched multi-get.
// Keys whose document is missing or undecodable are skipped; the set can
// legitimately run ahead of (or behind) the documents.
func (r *CartRepository) FindAll(ctx context.Context) ([]*Cart, error) {
	keys, err := r.collections.Members(ctx, CollectionKey(CartTypeName))
	if err != nil {
		return nil, fmt.Errorf("list cart keys: %w", err)
	}
	return r.multiGet(ctx, keys)
}

// FindAllByID reads the carts for the given ids, skipping absent ones
func (r *CartRepository) FindAllByID(ctx context.Context, ids []string) ([]*Cart, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = EntityKey(CartTypeName, id)
	}
	return r.multiGet(ctx, keys)
}

func (r *CartRepository) multiGet(ctx context.Context, keys []string) ([]*Cart, error) {
	slots, err := MGetJSON[Cart](ctx, r.docs, keys)
	if err != nil {
		return nil, fmt.Errorf("multi-get carts: %w", err)
	}
	carts := make([]*Cart, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			carts = append(carts, c)
		}
	}
	return carts, nil
}

// Count returns the number of carts in the membership set. On failure it
// returns -1 with the error; callers must treat -1 as "unavailable", never
// as an empty collection.
func (r *CartRepository) Count(ctx context.Context) (int64, error) {
	return r.collections.Count(ctx, CollectionKey(CartTypeName))
}

// DeleteByID removes the cart document, then its membership-set entry.
// Zero removals from the set is only a warning: the entry may have already
// been absent. The user->cart secondary-index entry is left in place; a
// later FindByUserID resolves it to a nil cart.
func (r *CartRepository) DeleteByID(ctx context.Context, id string) error {
	key := EntityKey(CartTypeName, id)

	if err := r.docs.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete cart %s: %w", id, err)
	}

	removed, err := r.collections.Remove(ctx, CollectionKey(CartTypeName), key)
	if err != nil {
		return fmt.Errorf("deregister cart %s: %w", id, err)
	}
	if removed > 0 {
		r.logger.Info("removed cart from collection", "key", key, "removed", removed)
	} else {
		r.logger.Warn("cart key was not in collection", "key", key)
	}
	return nil
}

// Delete removes the given cart
func (r *CartRepository) Delete(ctx context.Context, cart *Cart) error {
	return r.DeleteByID(ctx, cart.ID)
}

// DeleteAll drops the whole membership set. The cart documents themselves
// are untouched, matching the set-only scope of this operation.
func (r *CartRepository) DeleteAll(ctx context.Context) error {
	dropped, err := r.collections.Drop(ctx, CollectionKey(CartTypeName))
	if err != nil {
		return fmt.Errorf("drop cart collection: %w", err)
	}
	if dropped {
		r.logger.Info("dropped cart collection set")
	} else {
		r.logger.Warn("cart collection set did not exist")
	}
	return nil
}

// FindByUserID resolves the owner's current cart through the secondary
// index. Returns nil when no mapping exists or the mapped document has since
// been deleted.
func (r *CartRepository) FindByUserID(ctx context.Context, userID string) (*Cart, error) {
	cartID, err := r.byUser.Get(ctx, CartsByUserIndex, userID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("look up cart for user %s: %w", userID, err)
	}
	return r.FindByID(ctx, cartID)
}
