// internal/cart/service.go
package cart

import (
	"context"

	"github.com/google/uuid"
)

// Line names a book and a quantity in a cart request.
type Line struct {
	BookID   uuid.UUID `json:"bookId"`
	Quantity int       `json:"quantity"`
}

// Service owns all cart mutations.
type Service interface {
	// GetOrCreate returns the user's cart, persisting a new empty one on
	// first access.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Get returns the cart with book references resolved, for display.
	Get(ctx context.Context, userID uuid.UUID) (*View, error)

	// Add merges lines into the cart, summing quantities for books
	// already present. A line referencing a missing book aborts the whole
	// batch before anything is persisted.
	Add(ctx context.Context, userID uuid.UUID, lines []Line) (*View, error)

	// UpdateQuantities sets (not adds) quantities for existing lines.
	UpdateQuantities(ctx context.Context, userID uuid.UUID, lines []Line) (*View, error)

	// Remove decrements quantities for existing lines; a line reaching
	// zero is dropped. Removing more copies than held is rejected.
	Remove(ctx context.Context, userID uuid.UUID, lines []Line) (*View, error)

	// RemoveBook drops a single line unconditionally.
	RemoveBook(ctx context.Context, userID uuid.UUID, bookID uuid.UUID) (*View, error)

	// Clear empties the cart, used after a successful checkout.
	Clear(ctx context.Context, userID uuid.UUID) (*Cart, error)
}
