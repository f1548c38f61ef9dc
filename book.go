package shelfstore

// Book is a catalog entry, stored as one JSON document at "Book:<isbn>".
// The RediSearch index covers title, subtitle, description and the first
// MaxIndexedAuthors author positions.
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description,omitempty"`
	Language    string   `json:"language,omitempty"`
	PageCount   int64    `json:"pageCount,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	InfoLink    string   `json:"infoLink,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}
