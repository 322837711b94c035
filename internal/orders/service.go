// internal/orders/service.go
package orders

import (
	"context"

	"bookstore/internal/accounts"

	"github.com/google/uuid"
)

// Service defines the interface for the orders service.
type Service interface {
	// Place converts the user's cart into a persisted order, reserving
	// stock for every line or leaving no trace on failure. A non-empty
	// idempotencyKey deduplicates retried checkout requests.
	Place(ctx context.Context, userID uuid.UUID, details Details, idempotencyKey string) (*View, error)

	Get(ctx context.Context, userID, id uuid.UUID) (*View, error)
	Query(ctx context.Context, filter Filter) (*Page, error)

	// Delete removes an order and restores its stock, returning the
	// pre-deletion snapshot.
	Delete(ctx context.Context, userID, id uuid.UUID) (*View, error)

	// UpdateStatus moves an order along the lifecycle table. Caller
	// authorization (admin / order-manager) is enforced at the router.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Order, error)
}

// ProfileSource supplies the shipping/contact fallback for checkouts whose
// request omits them. Implemented by the accounts service.
type ProfileSource interface {
	Profile(ctx context.Context, id uuid.UUID) (accounts.Profile, error)
}
