// internal/cart/implementation.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore/internal/apierr"
	"bookstore/internal/catalog"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// service implements the Service interface.
type service struct {
	store Store
	books catalog.Store
	log   zerolog.Logger
}

// NewService creates a new cart service instance.
func NewService(store Store, books catalog.Store, log zerolog.Logger) Service {
	return &service{store: store, books: books, log: log}
}

func (s *service) GetOrCreate(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	cart, err := s.store.Get(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	now := time.Now()
	cart = &Cart{UserID: userID, Items: []Item{}, CreatedAt: now, UpdatedAt: now}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return cart, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, cart)
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, lines []Line) (*View, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Process the whole batch before persisting anything, so one bad
	// line leaves the stored cart untouched.
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apierr.BadRequest("quantity must be positive")
		}
		if _, err := s.books.FindByID(ctx, line.BookID); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, apierr.NotFound("Book not found or unavailable")
			}
			return nil, fmt.Errorf("failed to look up book: %w", err)
		}
		if i := cart.find(line.BookID); i >= 0 {
			cart.Items[i].Quantity += line.Quantity
		} else {
			cart.Items = append(cart.Items, Item{BookID: line.BookID, Quantity: line.Quantity})
		}
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.populate(ctx, cart)
}

func (s *service) UpdateQuantities(ctx context.Context, userID uuid.UUID, lines []Line) (*View, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apierr.BadRequest("quantity must be positive")
		}
		i := cart.find(line.BookID)
		if i < 0 {
			return nil, apierr.NotFound("Book not found in cart")
		}
		cart.Items[i].Quantity = line.Quantity
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.populate(ctx, cart)
}

func (s *service) Remove(ctx context.Context, userID uuid.UUID, lines []Line) (*View, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		i := cart.find(line.BookID)
		if i < 0 {
			return nil, apierr.NotFound("Book not found in cart")
		}
		if cart.Items[i].Quantity < line.Quantity {
			return nil, apierr.BadRequest("Cannot remove more copies than are in the cart")
		}
		cart.Items[i].Quantity -= line.Quantity
		if cart.Items[i].Quantity <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		}
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.populate(ctx, cart)
}

func (s *service) RemoveBook(ctx context.Context, userID uuid.UUID, bookID uuid.UUID) (*View, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := cart.find(bookID)
	if i < 0 {
		return nil, apierr.NotFound("Book not found in cart")
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.populate(ctx, cart)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Items = []Item{}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// save persists the cart after dropping lines whose book has been deleted
// since it was added. The pruning is silent; a stale line is not an error.
func (s *service) save(ctx context.Context, cart *Cart) error {
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		_, err := s.books.FindByID(ctx, item.BookID)
		if errors.Is(err, catalog.ErrNotFound) {
			s.log.Debug().Stringer("book_id", item.BookID).Msg("pruning stale cart line")
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to validate cart line: %w", err)
		}
		kept = append(kept, item)
	}
	cart.Items = kept
	cart.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *service) populate(ctx context.Context, cart *Cart) (*View, error) {
	view := &View{UserID: cart.UserID, Items: []ViewItem{}, UpdatedAt: cart.UpdatedAt}
	for _, item := range cart.Items {
		book, err := s.books.FindByID(ctx, item.BookID)
		if errors.Is(err, catalog.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cart line: %w", err)
		}
		view.Items = append(view.Items, ViewItem{Book: book, Quantity: item.Quantity})
	}
	return view, nil
}
