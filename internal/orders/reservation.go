// internal/orders/reservation.go
package orders

import (
	"context"
	"errors"
	"fmt"

	"bookstore/internal/apierr"
	"bookstore/internal/catalog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/rs/zerolog"
)

// ReservationConfig tunes the stock reservation engine. MaxAttempts bounds
// per-line retries of transient store conflicts; tests inject 1 to force the
// exhaustion path deterministically.
type ReservationConfig struct {
	MaxAttempts int
}

// DefaultReservationConfig matches the original retry cap.
var DefaultReservationConfig = ReservationConfig{MaxAttempts: 5}

// reservationEngine applies guarded stock decrements line by line, strictly
// sequentially, so two lines naming the same book within one order see each
// other's effect. The conditional update at the store is the only
// synchronization point; there is no read-then-write window to protect.
type reservationEngine struct {
	books     catalog.Store
	cfg       ReservationConfig
	log       zerolog.Logger
	tracer    trace.Tracer
	conflicts metric.Int64Counter
}

func newReservationEngine(books catalog.Store, cfg ReservationConfig, log zerolog.Logger) *reservationEngine {
	if cfg.MaxAttempts < 1 {
		cfg = DefaultReservationConfig
	}
	meter := otel.Meter("bookstore/orders")
	conflicts, _ := meter.Int64Counter("reservation.conflicts",
		metric.WithDescription("transient store conflicts retried during stock reservation"))
	return &reservationEngine{
		books:     books,
		cfg:       cfg,
		log:       log,
		tracer:    otel.Tracer("bookstore/orders"),
		conflicts: conflicts,
	}
}

// reserveLine attempts the guarded decrement for one order line, retrying
// transient conflicts up to the configured cap. Insufficient stock is not
// retried: the condition failing means the copies are not there (or the book
// was deleted since cart-add), and the whole order fails.
func (e *reservationEngine) reserveLine(ctx context.Context, item Item) error {
	ctx, span := e.tracer.Start(ctx, "orders.reserveLine",
		trace.WithAttributes(
			attribute.String("book.id", item.BookID.String()),
			attribute.Int("quantity", item.Quantity),
		),
	)
	defer span.End()

	var lastErr error
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		_, err := e.books.DecrementStockIfAvailable(ctx, item.BookID, item.Quantity)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt))
			return nil
		}
		if errors.Is(err, catalog.ErrInsufficientStock) {
			span.RecordError(err)
			return apierr.BadRequest(fmt.Sprintf("Insufficient stock for book %s", item.BookID))
		}

		// Transient failure (serialization conflict or similar):
		// retry the same line.
		lastErr = err
		e.conflicts.Add(ctx, 1)
		e.log.Warn().
			Stringer("book_id", item.BookID).
			Int("attempt", attempt).
			Err(err).
			Msg("stock decrement conflict, retrying")
	}

	span.RecordError(lastErr)
	var apiErr *apierr.Error
	if errors.As(lastErr, &apiErr) {
		return lastErr
	}
	return apierr.Internal("Concurrency conflict occurred while updating book stock", lastErr)
}

// revertLine restores stock for one previously reserved line. The restore is
// version-guarded: read the current version, then increment conditioned on
// it, retrying on interleaved mutations. After the cap it falls back to the
// plain unguarded increment. Failures are logged and swallowed so a revert
// failure never masks the error that triggered compensation; the stock stays
// under-counted and is surfaced as a data-integrity event.
func (e *reservationEngine) revertLine(ctx context.Context, item Item) {
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		book, err := e.books.FindByID(ctx, item.BookID)
		if err != nil {
			e.log.Error().
				Stringer("book_id", item.BookID).
				Int("quantity", item.Quantity).
				Err(err).
				Msg("DATA INTEGRITY: failed to revert stock, book unreadable")
			return
		}

		err = e.books.IncrementStockVersioned(ctx, item.BookID, item.Quantity, book.Version)
		if err == nil {
			return
		}
		if !errors.Is(err, catalog.ErrVersionConflict) {
			e.log.Error().
				Stringer("book_id", item.BookID).
				Int("quantity", item.Quantity).
				Err(err).
				Msg("DATA INTEGRITY: failed to revert stock")
			return
		}
		e.conflicts.Add(ctx, 1)
	}

	if err := e.books.IncrementStock(ctx, item.BookID, item.Quantity); err != nil {
		e.log.Error().
			Stringer("book_id", item.BookID).
			Int("quantity", item.Quantity).
			Err(err).
			Msg("DATA INTEGRITY: failed to revert stock after version conflicts")
	}
}
