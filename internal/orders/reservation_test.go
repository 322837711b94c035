// internal/orders/reservation_test.go
package orders

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"bookstore/internal/apierr"
	"bookstore/internal/catalog"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("serialization conflict")

// flakyStore wraps a catalog store and fails the first n conditional
// decrements with a transient error.
type flakyStore struct {
	catalog.Store
	mu       sync.Mutex
	failures int
}

func (s *flakyStore) DecrementStockIfAvailable(ctx context.Context, id uuid.UUID, quantity int) (*catalog.Book, error) {
	s.mu.Lock()
	if s.failures > 0 {
		s.failures--
		s.mu.Unlock()
		return nil, errTransient
	}
	s.mu.Unlock()
	return s.Store.DecrementStockIfAvailable(ctx, id, quantity)
}

// stubbornStore always rejects the version-guarded increment.
type stubbornStore struct {
	catalog.Store
}

func (s *stubbornStore) IncrementStockVersioned(ctx context.Context, id uuid.UUID, quantity, expectedVersion int) error {
	return catalog.ErrVersionConflict
}

func TestReserveLineRetriesTransientConflicts(t *testing.T) {
	ctx := context.Background()
	books := catalog.NewMemoryStore()
	book := createBook(t, books, 5)

	flaky := &flakyStore{Store: books, failures: 2}
	engine := newReservationEngine(flaky, ReservationConfig{MaxAttempts: 5}, zerolog.Nop())

	err := engine.reserveLine(ctx, Item{BookID: book.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, books, book.ID))
}

func TestReserveLineExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	books := catalog.NewMemoryStore()
	book := createBook(t, books, 5)

	flaky := &flakyStore{Store: books, failures: 1000}
	engine := newReservationEngine(flaky, ReservationConfig{MaxAttempts: 1}, zerolog.Nop())

	err := engine.reserveLine(ctx, Item{BookID: book.ID, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apierr.From(err).Status)
	assert.Equal(t, "Concurrency conflict occurred while updating book stock", apierr.From(err).Message)
	assert.ErrorIs(t, err, errTransient)

	assert.Equal(t, 5, stockOf(t, books, book.ID))
}

func TestReserveLineInsufficientStockNotRetried(t *testing.T) {
	ctx := context.Background()
	books := catalog.NewMemoryStore()
	book := createBook(t, books, 1)

	engine := newReservationEngine(books, ReservationConfig{MaxAttempts: 5}, zerolog.Nop())

	err := engine.reserveLine(ctx, Item{BookID: book.ID, Quantity: 2})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.From(err).Status)
	assert.Contains(t, apierr.From(err).Message, "Insufficient stock")
}

func TestRevertLineGuardedByVersion(t *testing.T) {
	ctx := context.Background()
	books := catalog.NewMemoryStore()
	book := createBook(t, books, 5)

	engine := newReservationEngine(books, ReservationConfig{MaxAttempts: 5}, zerolog.Nop())
	require.NoError(t, engine.reserveLine(ctx, Item{BookID: book.ID, Quantity: 3}))
	require.Equal(t, 2, stockOf(t, books, book.ID))

	engine.revertLine(ctx, Item{BookID: book.ID, Quantity: 3})
	assert.Equal(t, 5, stockOf(t, books, book.ID))
}

func TestRevertLineFallsBackAfterVersionConflicts(t *testing.T) {
	ctx := context.Background()
	books := catalog.NewMemoryStore()
	book := createBook(t, books, 5)

	stubborn := &stubbornStore{Store: books}
	engine := newReservationEngine(stubborn, ReservationConfig{MaxAttempts: 2}, zerolog.Nop())
	require.NoError(t, engine.reserveLine(ctx, Item{BookID: book.ID, Quantity: 3}))

	// The guarded increment never succeeds; the plain one must restore the
	// copies anyway.
	engine.revertLine(ctx, Item{BookID: book.ID, Quantity: 3})
	assert.Equal(t, 5, stockOf(t, books, book.ID))
}

func TestRevertLineMissingBookIsSwallowed(t *testing.T) {
	ctx := context.Background()
	books := catalog.NewMemoryStore()
	engine := newReservationEngine(books, DefaultReservationConfig, zerolog.Nop())

	// Must not panic or error: the failure is logged only.
	engine.revertLine(ctx, Item{BookID: uuid.New(), Quantity: 1})
}

func TestZeroConfigFallsBackToDefault(t *testing.T) {
	engine := newReservationEngine(catalog.NewMemoryStore(), ReservationConfig{}, zerolog.Nop())
	assert.Equal(t, DefaultReservationConfig.MaxAttempts, engine.cfg.MaxAttempts)
}
