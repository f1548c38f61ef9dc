package shelfstore

// Cart is the shopping-cart aggregate: one JSON document per cart at
// "Cart:<id>". IDs are unique across carts; a missing ID on save means a new
// one is generated.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	CartItems []CartItem `json:"cartItems"`
}

// CartItem references a book by ISBN. Price is a snapshot captured when the
// item was added; it is never re-synced with the book's current price.
type CartItem struct {
	ISBN     string  `json:"isbn"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// cartItemsPath addresses the items array for sub-document mutation
const cartItemsPath = "$.cartItems"
