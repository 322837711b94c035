// internal/cart/implementation_test.go
package cart

import (
	"context"
	"net/http"
	"testing"

	"bookstore/internal/apierr"
	"bookstore/internal/catalog"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	service Service
	store   *MemoryStore
	books   *catalog.MemoryStore
	userID  uuid.UUID
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	books := catalog.NewMemoryStore()
	store := NewMemoryStore()
	return &cartFixture{
		service: NewService(store, books, zerolog.Nop()),
		store:   store,
		books:   books,
		userID:  uuid.New(),
	}
}

func (f *cartFixture) addBook(t *testing.T, stock int) *catalog.Book {
	t.Helper()
	book := &catalog.Book{Title: "A Book", Author: "An Author", Stock: stock}
	require.NoError(t, f.books.Create(context.Background(), book))
	return book
}

func (f *cartFixture) stored(t *testing.T) *Cart {
	t.Helper()
	cart, err := f.store.Get(context.Background(), f.userID)
	require.NoError(t, err)
	return cart
}

func TestGetOrCreatePersistsEmptyCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	cart, err := f.service.GetOrCreate(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// The lazily created cart is persisted, not transient.
	again, err := f.store.Get(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, f.userID, again.UserID)
}

func TestAddMergesQuantities(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 10)

	_, err := f.service.Add(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 2}})
	require.NoError(t, err)
	view, err := f.service.Add(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 3}})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)

	stored := f.stored(t)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 5, stored.Items[0].Quantity)
}

func TestAddRejectsWholeBatchOnMissingBook(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 10)

	_, err := f.service.Add(ctx, f.userID, []Line{
		{BookID: book.ID, Quantity: 1},
		{BookID: uuid.New(), Quantity: 1},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.From(err).Status)

	// The valid first line must not have been persisted either.
	stored := f.stored(t)
	assert.Empty(t, stored.Items)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	f := newCartFixture(t)
	book := f.addBook(t, 10)

	_, err := f.service.Add(context.Background(), f.userID, []Line{{BookID: book.ID, Quantity: 0}})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.From(err).Status)
}

func TestUpdateQuantitiesSetsNotAdds(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 10)

	_, err := f.service.Add(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 2}})
	require.NoError(t, err)
	view, err := f.service.UpdateQuantities(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 7}})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 7, view.Items[0].Quantity)

	_, err = f.service.UpdateQuantities(ctx, f.userID, []Line{{BookID: uuid.New(), Quantity: 1}})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.From(err).Status)
}

func TestRemoveDecrementsAndDrops(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 10)

	_, err := f.service.Add(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 3}})
	require.NoError(t, err)

	view, err := f.service.Remove(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 1}})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)

	// Reaching zero drops the line.
	view, err = f.service.Remove(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 2}})
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestRemoveMoreThanHeldRejected(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 10)

	_, err := f.service.Add(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 2}})
	require.NoError(t, err)

	_, err = f.service.Remove(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 3}})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.From(err).Status)
	assert.Equal(t, "Cannot remove more copies than are in the cart", apierr.From(err).Message)

	// Nothing changed.
	stored := f.stored(t)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestRemoveBookDropsLineUnconditionally(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 10)

	_, err := f.service.Add(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 5}})
	require.NoError(t, err)

	view, err := f.service.RemoveBook(ctx, f.userID, book.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = f.service.RemoveBook(ctx, f.userID, book.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.From(err).Status)
}

func TestStaleLinesPrunedOnSave(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	keeper := f.addBook(t, 10)
	doomed := f.addBook(t, 10)

	_, err := f.service.Add(ctx, f.userID, []Line{
		{BookID: keeper.ID, Quantity: 1},
		{BookID: doomed.ID, Quantity: 1},
	})
	require.NoError(t, err)

	require.NoError(t, f.books.Delete(ctx, doomed.ID))

	// The next mutation prunes the stale line as a side effect.
	view, err := f.service.Add(ctx, f.userID, []Line{{BookID: keeper.ID, Quantity: 1}})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, keeper.ID, view.Items[0].Book.ID)

	stored := f.stored(t)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, keeper.ID, stored.Items[0].BookID)
}

func TestClearEmptiesCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	book := f.addBook(t, 10)

	_, err := f.service.Add(ctx, f.userID, []Line{{BookID: book.ID, Quantity: 4}})
	require.NoError(t, err)

	cart, err := f.service.Clear(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Empty(t, f.stored(t).Items)
}
