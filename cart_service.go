package shelfstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// CartService orchestrates cross-entity cart operations: price enrichment on
// add, index-based item removal, and checkout materializing owned books onto
// the user. Item mutation goes through the backend's sub-document primitives
// so the cart document never round-trips whole.
type CartService struct {
	carts  *CartRepository
	books  *BookRepository
	users  *UserRepository
	docs   DocumentBackend
	logger Logger
}

// NewCartService creates the service. The backend handle is the same one
// the repositories write through.
func NewCartService(carts *CartRepository, books *BookRepository, users *UserRepository, docs DocumentBackend) *CartService {
	return &CartService{
		carts:  carts,
		books:  books,
		users:  users,
		docs:   docs,
		logger: &NoOpLogger{},
	}
}

// WithLogger sets the service logger
func (s *CartService) WithLogger(logger Logger) *CartService {
	s.logger = logger
	return s
}

// Get reads a cart; absence is a nil cart
func (s *CartService) Get(ctx context.Context, cartID string) (*Cart, error) {
	return s.carts.FindByID(ctx, cartID)
}

// AddToCart stamps the item's price from the referenced book's current
// record and atomically appends it to the cart's items array. When the book
// does not exist the call logs and returns nil without touching the cart:
// the caller gets no rejection signal, which is a known weak contract kept
// from the original design.
func (s *CartService) AddToCart(ctx context.Context, cartID string, item CartItem) error {
	book, err := s.books.FindByID(ctx, item.ISBN)
	if err != nil {
		return fmt.Errorf("resolve book %s: %w", item.ISBN, err)
	}
	if book == nil {
		s.logger.Error("book not found, item not added", "isbn", item.ISBN, "cartId", cartID)
		return nil
	}

	// Price captured at add-time, never re-synced
	item.Price = book.Price

	elem, err := marshalItem(item)
	if err != nil {
		return err
	}
	if err := s.docs.ArrAppend(ctx, EntityKey(CartTypeName, cartID), cartItemsPath, elem); err != nil {
		return fmt.Errorf("append item to cart %s: %w", cartID, err)
	}
	return nil
}

// RemoveFromCart removes the first item matching isbn. The index comes from
// a fresh read immediately before the pop, but the read-then-pop pair is not
// atomic: a concurrent mutation of the same cart can shift positions and the
// pop lands on a different element. Missing cart or isbn logs and returns
// nil.
func (s *CartService) RemoveFromCart(ctx context.Context, cartID, isbn string) error {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return fmt.Errorf("read cart %s: %w", cartID, err)
	}
	if cart == nil {
		s.logger.Warn("cart not found", "cartId", cartID)
		return nil
	}

	index := -1
	for i, item := range cart.CartItems {
		if item.ISBN == isbn {
			index = i
			break
		}
	}
	if index < 0 {
		s.logger.Error("isbn not found in cart", "isbn", isbn, "cartId", cartID)
		return nil
	}

	if _, err := s.docs.ArrPopAt(ctx, EntityKey(CartTypeName, cart.ID), cartItemsPath, index); err != nil {
		return fmt.Errorf("remove item from cart %s: %w", cartID, err)
	}
	return nil
}

// Checkout resolves every item's book and adds it to the owning user's book
// set, then persists the user. The cart itself is left untouched: checkout
// is additive only, items stay in place.
func (s *CartService) Checkout(ctx context.Context, cartID string) error {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return fmt.Errorf("read cart %s: %w", cartID, err)
	}
	if cart == nil {
		return fmt.Errorf("checkout cart %s: %w", cartID, ErrNotFound)
	}

	user, err := s.users.FindByID(ctx, cart.UserID)
	if err != nil {
		return fmt.Errorf("read user %s: %w", cart.UserID, err)
	}
	if user == nil {
		return fmt.Errorf("checkout cart %s: owner %s: %w", cartID, cart.UserID, ErrNotFound)
	}

	for _, item := range cart.CartItems {
		book, err := s.books.FindByID(ctx, item.ISBN)
		if err != nil {
			return fmt.Errorf("resolve book %s: %w", item.ISBN, err)
		}
		if book == nil {
			s.logger.Warn("book vanished between add and checkout", "isbn", item.ISBN, "cartId", cartID)
			continue
		}
		user.AddBook(book.ID)
	}

	if _, err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("persist user %s after checkout: %w", user.ID, err)
	}
	return nil
}

func marshalItem(item CartItem) ([]byte, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("marshal cart item: %w", err)
	}
	return data, nil
}
