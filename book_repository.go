package shelfstore

import (
	"context"
	"fmt"
)

// BookRepository stores catalog entries at "Book:<isbn>" with a membership
// set for listing. Books have no secondary index; lookups are by ISBN only,
// full-text search goes through BookSearcher.
type BookRepository struct {
	docs        *DocStore
	collections *CollectionIndex
	logger      Logger
}

// NewBookRepository creates the repository
func NewBookRepository(docs *DocStore, collections *CollectionIndex) *BookRepository {
	return &BookRepository{
		docs:        docs,
		collections: collections,
		logger:      &NoOpLogger{},
	}
}

// WithLogger sets the repository logger
func (r *BookRepository) WithLogger(logger Logger) *BookRepository {
	r.logger = logger
	return r
}

// Save persists the book and registers it in the Book collection
func (r *BookRepository) Save(ctx context.Context, book *Book) error {
	if book.ID == "" {
		return WithContext(ErrInvalidConfig, map[string]interface{}{
			"field":  "ID",
			"reason": "book id (isbn) is required",
		})
	}
	key := EntityKey(BookTypeName, book.ID)

	if err := r.docs.PutJSON(ctx, key, book); err != nil {
		return fmt.Errorf("save book %s: %w", book.ID, err)
	}
	if err := r.collections.Add(ctx, CollectionKey(BookTypeName), key); err != nil {
		return fmt.Errorf("register book %s in collection: %w", book.ID, err)
	}
	return nil
}

// FindByID reads a book by ISBN; absence is a nil book
func (r *BookRepository) FindByID(ctx context.Context, isbn string) (*Book, error) {
	var book Book
	err := r.docs.GetJSON(ctx, EntityKey(BookTypeName, isbn), &book)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find book %s: %w", isbn, err)
	}
	return &book, nil
}

// FindAll lists all books via the membership set and a batched multi-get,
// skipping keys whose document is missing or undecodable
func (r *BookRepository) FindAll(ctx context.Context) ([]*Book, error) {
	keys, err := r.collections.Members(ctx, CollectionKey(BookTypeName))
	if err != nil {
		return nil, fmt.Errorf("list book keys: %w", err)
	}
	slots, err := MGetJSON[Book](ctx, r.docs, keys)
	if err != nil {
		return nil, fmt.Errorf("multi-get books: %w", err)
	}
	books := make([]*Book, 0, len(slots))
	for _, b := range slots {
		if b != nil {
			books = append(books, b)
		}
	}
	return books, nil
}

// Count returns the collection size, -1 with an error when unknown
func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	return r.collections.Count(ctx, CollectionKey(BookTypeName))
}

// DeleteByID removes the book document and its membership entry
func (r *BookRepository) DeleteByID(ctx context.Context, isbn string) error {
	key := EntityKey(BookTypeName, isbn)
	if err := r.docs.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete book %s: %w", isbn, err)
	}
	if _, err := r.collections.Remove(ctx, CollectionKey(BookTypeName), key); err != nil {
		return fmt.Errorf("deregister book %s: %w", isbn, err)
	}
	return nil
}
