// internal/orders/handler_test.go
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/internal/cart"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, f *orderFixture) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/orders", NewHandler(f.service).Routes)
	return r
}

func placeTestOrder(t *testing.T, f *orderFixture, stock, quantity int) *View {
	t.Helper()
	ctx := context.Background()
	book := createBook(t, f.books, stock)
	_, err := f.carts.Add(ctx, f.userID, []cart.Line{{BookID: book.ID, Quantity: quantity}})
	require.NoError(t, err)
	view, err := f.service.Place(ctx, f.userID, checkoutDetails, "")
	require.NoError(t, err)
	return view
}

func TestHandlerPlace(t *testing.T) {
	f := defaultFixture(t)
	router := newTestRouter(t, f)
	ctx := context.Background()

	book := createBook(t, f.books, 5)
	_, err := f.carts.Add(ctx, f.userID, []cart.Line{{BookID: book.ID, Quantity: 2}})
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{
		"paymentMethod":   PaymentCashOnDelivery,
		"shippingAddress": "42 Main Street",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders/", bytes.NewReader(body))
	req.Header.Set("X-User-ID", f.userID.String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, StatusPending, view.Status)
	assert.Equal(t, 3, stockOf(t, f.books, book.ID))
}

func TestHandlerPlaceRequiresIdentity(t *testing.T) {
	f := defaultFixture(t)
	router := newTestRouter(t, f)

	req := httptest.NewRequest(http.MethodPost, "/orders/", bytes.NewReader([]byte(`{"paymentMethod":"paypal"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerPlaceRequiresPaymentMethod(t *testing.T) {
	f := defaultFixture(t)
	router := newTestRouter(t, f)

	req := httptest.NewRequest(http.MethodPost, "/orders/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("X-User-ID", f.userID.String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerQueryScopesNonManagers(t *testing.T) {
	f := defaultFixture(t)
	router := newTestRouter(t, f)
	placeTestOrder(t, f, 5, 1)

	// A plain user asking for all orders only sees their own; a different
	// user sees none at all.
	req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
	req.Header.Set("X-User-ID", f.userID.String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var page Page
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 1, page.Total)

	req = httptest.NewRequest(http.MethodGet, "/orders/", nil)
	req.Header.Set("X-User-ID", newOrderFixture(t, f.books, f.profiles, DefaultReservationConfig).userID.String())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerUpdateStatusManagerOnly(t *testing.T) {
	f := defaultFixture(t)
	router := newTestRouter(t, f)
	placed := placeTestOrder(t, f, 5, 1)

	body := []byte(`{"status":"confirmed"}`)

	req := httptest.NewRequest(http.MethodPatch, "/orders/"+placed.ID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("X-User-ID", f.userID.String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/orders/"+placed.ID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("X-User-ID", f.userID.String())
	req.Header.Set("X-User-Role", "order_manager")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var order Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
	assert.Equal(t, StatusConfirmed, order.Status)
}

func TestHandlerDeleteRestoresStock(t *testing.T) {
	f := defaultFixture(t)
	router := newTestRouter(t, f)
	placed := placeTestOrder(t, f, 5, 2)
	bookID := placed.Items[0].Book.ID
	require.Equal(t, 3, stockOf(t, f.books, bookID))

	req := httptest.NewRequest(http.MethodDelete, "/orders/"+placed.ID.String(), nil)
	req.Header.Set("X-User-ID", f.userID.String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, stockOf(t, f.books, bookID))
}
