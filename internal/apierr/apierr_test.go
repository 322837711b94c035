// internal/apierr/apierr_test.go
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPassesThrough(t *testing.T) {
	orig := NotFound("Order not found")
	assert.Same(t, orig, From(orig))

	wrapped := fmt.Errorf("handler: %w", orig)
	assert.Same(t, orig, From(wrapped))
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	apiErr := From(cause)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "internal server error", apiErr.Message)
	assert.ErrorIs(t, apiErr, cause)
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: password authentication failed")
	apiErr := Internal("Error fetching orders", cause)

	body, err := json.Marshal(apiErr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Error fetching orders"}`, string(body))
	assert.ErrorIs(t, apiErr, cause)
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, BadRequest("Cannot create order because the cart is empty"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Cannot create order because the cart is empty"}`, rec.Body.String())
}
