// internal/cart/domain.go
package cart

import (
	"time"

	"bookstore/internal/catalog"

	"github.com/google/uuid"
)

// Cart holds the pending purchases of exactly one user. It is created lazily
// on first access and emptied, never deleted.
type Cart struct {
	UserID    uuid.UUID `json:"user_id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one cart line. A book appears at most once per cart; adding the
// same book again merges by summing quantities.
type Item struct {
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

// find returns the index of the line referencing bookID, or -1.
func (c *Cart) find(bookID uuid.UUID) int {
	for i, item := range c.Items {
		if item.BookID == bookID {
			return i
		}
	}
	return -1
}

// View is a cart with book references resolved to full book data, for
// display only. The reservation path never reads it.
type View struct {
	UserID    uuid.UUID  `json:"user_id"`
	Items     []ViewItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type ViewItem struct {
	Book     *catalog.Book `json:"book"`
	Quantity int           `json:"quantity"`
}
