// internal/cart/store.go
package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user has no cart yet.
var ErrNotFound = errors.New("cart not found")

// Store persists carts as one document per user.
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
}
