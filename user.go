package shelfstore

// User is an account document at "User:<id>". Books holds the ids of owned
// books; checkout appends to it. Password is stored as an opaque hash
// produced elsewhere and never serialized out through the HTTP surface.
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Books    []string `json:"books,omitempty"`
}

// AddBook records ownership of a book id, ignoring duplicates
func (u *User) AddBook(bookID string) {
	for _, id := range u.Books {
		if id == bookID {
			return
		}
	}
	u.Books = append(u.Books, bookID)
}
