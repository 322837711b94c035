// internal/catalog/store.go
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no book has the given ID.
	ErrNotFound = errors.New("book not found")

	// ErrInsufficientStock is returned by DecrementStockIfAvailable when
	// the conditional update matched no row: either the book holds fewer
	// copies than requested, or it was deleted since it entered the cart.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrVersionConflict is returned by IncrementStockVersioned when the
	// book's version no longer matches the expected one.
	ErrVersionConflict = errors.New("book version conflict")
)

// Store persists books. Stock mutations go through the two dedicated
// primitives below; correctness of concurrent checkouts depends entirely on
// DecrementStockIfAvailable being a single atomic conditional update at the
// storage layer.
type Store interface {
	Create(ctx context.Context, book *Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*Book, error)
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) (*Page, error)

	// DecrementStockIfAvailable atomically decrements stock by quantity
	// and bumps the version, but only if stock >= quantity at apply time.
	// It returns the updated book, or ErrInsufficientStock when the
	// condition did not hold.
	DecrementStockIfAvailable(ctx context.Context, id uuid.UUID, quantity int) (*Book, error)

	// IncrementStock adds quantity back to stock and bumps the version,
	// unconditionally.
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// IncrementStockVersioned adds quantity back to stock only if the
	// book's version still equals expectedVersion, bumping it on success.
	// Returns ErrVersionConflict otherwise.
	IncrementStockVersioned(ctx context.Context, id uuid.UUID, quantity, expectedVersion int) error
}
