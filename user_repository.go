package shelfstore

import (
	"context"
	"fmt"
)

// UserRepository stores accounts at "User:<id>" with a membership set and a
// secondary index from email to user id. The email index carries the same
// last-write-wins caveat as every SecondaryIndex: it does not enforce
// uniqueness, it just remembers the most recent writer.
type UserRepository struct {
	docs        *DocStore
	collections *CollectionIndex
	byEmail     *SecondaryIndex
	logger      Logger
}

// NewUserRepository wires the primitives together
func NewUserRepository(docs *DocStore, collections *CollectionIndex, byEmail *SecondaryIndex) *UserRepository {
	return &UserRepository{
		docs:        docs,
		collections: collections,
		byEmail:     byEmail,
		logger:      &NoOpLogger{},
	}
}

// WithLogger sets the repository logger
func (r *UserRepository) WithLogger(logger Logger) *UserRepository {
	r.logger = logger
	return r
}

// Save persists the user, assigning an id when absent, and maintains the
// collection set plus the email index
func (r *UserRepository) Save(ctx context.Context, user *User) (*User, error) {
	if user.ID == "" {
		user.ID = NewID()
	}
	key := EntityKey(UserTypeName, user.ID)

	if err := r.docs.PutJSON(ctx, key, user); err != nil {
		return nil, fmt.Errorf("save user %s: %w", user.ID, err)
	}
	if err := r.collections.Add(ctx, CollectionKey(UserTypeName), key); err != nil {
		return nil, fmt.Errorf("register user %s in collection: %w", user.ID, err)
	}
	if user.Email != "" {
		if err := r.byEmail.Put(ctx, UsersByEmailIndex, user.Email, user.ID); err != nil {
			return nil, fmt.Errorf("index user %s by email: %w", user.ID, err)
		}
	}
	return user, nil
}

// FindByID reads a user; absence is a nil user
func (r *UserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := r.docs.GetJSON(ctx, EntityKey(UserTypeName, id), &user)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &user, nil
}

// FindFirstByEmail resolves an email through the secondary index. Because
// the index is last-write-wins, "first" means the most recently indexed
// user for that address.
func (r *UserRepository) FindFirstByEmail(ctx context.Context, email string) (*User, error) {
	id, err := r.byEmail.Get(ctx, UsersByEmailIndex, email)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("look up user by email: %w", err)
	}
	return r.FindByID(ctx, id)
}

// FindAll lists all users, skipping keys whose document is gone
func (r *UserRepository) FindAll(ctx context.Context) ([]*User, error) {
	keys, err := r.collections.Members(ctx, CollectionKey(UserTypeName))
	if err != nil {
		return nil, fmt.Errorf("list user keys: %w", err)
	}
	slots, err := MGetJSON[User](ctx, r.docs, keys)
	if err != nil {
		return nil, fmt.Errorf("multi-get users: %w", err)
	}
	users := make([]*User, 0, len(slots))
	for _, u := range slots {
		if u != nil {
			users = append(users, u)
		}
	}
	return users, nil
}

// Count returns the collection size, -1 with an error when unknown
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.collections.Count(ctx, CollectionKey(UserTypeName))
}

// DeleteByID removes the user document and its membership entry. The email
// index entry is not retracted, mirroring the cart index behavior.
func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	key := EntityKey(UserTypeName, id)
	if err := r.docs.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if _, err := r.collections.Remove(ctx, CollectionKey(UserTypeName), key); err != nil {
		return fmt.Errorf("deregister user %s: %w", id, err)
	}
	return nil
}
