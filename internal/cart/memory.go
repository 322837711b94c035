// internal/cart/memory.go
package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and local runs.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[uuid.UUID]*Cart)}
}

func (s *MemoryStore) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneCart(cart), nil
}

func (s *MemoryStore) Save(ctx context.Context, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.UserID] = cloneCart(cart)
	return nil
}

func cloneCart(cart *Cart) *Cart {
	clone := *cart
	clone.Items = append([]Item(nil), cart.Items...)
	return &clone
}
