// internal/orders/implementation.go
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore/internal/apierr"
	"bookstore/internal/cart"
	"bookstore/internal/catalog"
	"bookstore/internal/idempotency"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// service implements the Service interface.
type service struct {
	store    Store
	books    catalog.Store
	carts    cart.Service
	profiles ProfileSource
	guard    idempotency.Guard
	engine   *reservationEngine
	log      zerolog.Logger
	tracer   trace.Tracer
}

// NewService creates a new orders service instance.
func NewService(store Store, books catalog.Store, carts cart.Service, profiles ProfileSource, guard idempotency.Guard, cfg ReservationConfig, log zerolog.Logger) Service {
	return &service{
		store:    store,
		books:    books,
		carts:    carts,
		profiles: profiles,
		guard:    guard,
		engine:   newReservationEngine(books, cfg, log),
		log:      log,
		tracer:   otel.Tracer("bookstore/orders"),
	}
}

func (s *service) Place(ctx context.Context, userID uuid.UUID, details Details, idempotencyKey string) (*View, error) {
	ctx, span := s.tracer.Start(ctx, "orders.place",
		trace.WithAttributes(attribute.String("user.id", userID.String())),
	)
	defer span.End()

	if idempotencyKey != "" {
		fresh, err := s.guard.Acquire(ctx, idempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !fresh {
			return nil, apierr.Conflict("duplicate checkout request")
		}
	}

	userCart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(userCart.Items) == 0 {
		return nil, apierr.BadRequest("Cannot create order because the cart is empty")
	}

	order, err := s.buildDraft(ctx, userID, userCart, details)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("order.lines", len(order.Items)))

	checkout := newSaga(s.log)
	checkout.add("create draft",
		func(ctx context.Context) error {
			if err := s.store.Create(ctx, order); err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
			return nil
		},
		func(ctx context.Context) {
			// The draft must never be observable as a confirmed
			// order after a failed reservation.
			if err := s.store.Delete(ctx, order.ID); err != nil {
				s.log.Error().
					Stringer("order_id", order.ID).
					Err(err).
					Msg("DATA INTEGRITY: failed to delete draft order after failed reservation")
			}
		},
	)
	for _, item := range order.Items {
		item := item
		checkout.add(fmt.Sprintf("reserve %s", item.BookID),
			func(ctx context.Context) error { return s.engine.reserveLine(ctx, item) },
			func(ctx context.Context) { s.engine.revertLine(ctx, item) },
		)
	}

	if err := checkout.run(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	// The order is committed; a failure to empty the cart is logged, not
	// surfaced.
	if _, err := s.carts.Clear(ctx, userID); err != nil {
		s.log.Error().
			Stringer("user_id", userID).
			Err(err).
			Msg("failed to clear cart after checkout")
	}

	return s.populate(ctx, order)
}

// buildDraft snapshots the cart into an order draft, applying the profile
// fallback for shipping address and contact number. Address absence is
// fatal; contact absence is not.
func (s *service) buildDraft(ctx context.Context, userID uuid.UUID, userCart *cart.Cart, details Details) (*Order, error) {
	address := details.ShippingAddress
	contact := details.ContactNumber
	if address == "" || contact == "" {
		profile, err := s.profiles.Profile(ctx, userID)
		if err != nil {
			var apiErr *apierr.Error
			if !errors.As(err, &apiErr) {
				return nil, err
			}
			// Missing profile only matters if the request did not
			// carry the data itself.
		} else {
			if address == "" {
				address = profile.Address
			}
			if contact == "" {
				contact = profile.Phone
			}
		}
	}
	if address == "" {
		return nil, apierr.BadRequest("Please provide a shipping address")
	}

	items := make([]Item, len(userCart.Items))
	for i, line := range userCart.Items {
		items[i] = Item{BookID: line.BookID, Quantity: line.Quantity}
	}

	now := time.Now()
	return &Order{
		ID:                uuid.New(),
		UserID:            userID,
		Items:             items,
		Status:            StatusPending,
		ShippingAddress:   address,
		PaymentMethod:     details.PaymentMethod,
		ContactNumber:     contact,
		AdditionalDetails: details.AdditionalDetails,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*View, error) {
	order, err := s.store.FindByIDForUser(ctx, userID, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return s.populate(ctx, order)
}

func (s *service) Query(ctx context.Context, filter Filter) (*Page, error) {
	page, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, apierr.Internal("Error fetching orders", err)
	}
	if len(page.Orders) == 0 {
		if filter.Status != nil {
			return nil, apierr.NotFound("No orders found matching your search criteria")
		}
		return nil, apierr.NotFound("No orders found")
	}
	return page, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) (*View, error) {
	order, err := s.store.FindByIDForUser(ctx, userID, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	view, err := s.populate(ctx, order)
	if err != nil {
		return nil, err
	}

	// Restore stock before removing the row. Restoration failures are
	// logged, never fatal, and do not block the delete.
	for _, item := range order.Items {
		s.engine.revertLine(ctx, item)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}
	return view, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, apierr.BadRequest("unknown order status")
	}

	order, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, apierr.BadRequest(fmt.Sprintf("cannot change order status from %s to %s", order.Status, status))
	}

	updated, err := s.store.UpdateStatus(ctx, id, status)
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return updated, nil
}

// populate resolves book references for responses. A book deleted after
// checkout leaves its line with a nil Book; the snapshot quantity is kept.
func (s *service) populate(ctx context.Context, order *Order) (*View, error) {
	view := &View{Order: *order, Items: make([]ViewItem, 0, len(order.Items))}
	for _, item := range order.Items {
		book, err := s.books.FindByID(ctx, item.BookID)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve order line: %w", err)
		}
		view.Items = append(view.Items, ViewItem{Book: book, Quantity: item.Quantity})
	}
	return view, nil
}
