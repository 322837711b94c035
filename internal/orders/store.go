// internal/orders/store.go
package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no order matches.
var ErrNotFound = errors.New("order not found")

// Store persists orders.
type Store interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUser scopes the lookup to the owning user; an order
	// owned by someone else is ErrNotFound, not a permission error.
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)

	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Order, error)
	List(ctx context.Context, filter Filter) (*Page, error)
}
