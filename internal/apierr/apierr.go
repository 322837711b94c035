// internal/apierr/apierr.go
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is the API-facing error carried from the service layer to the HTTP
// layer. Status is an HTTP status code; Message is safe to show to clients.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NotFound reports a missing book, cart line or order.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// BadRequest reports an invalid request: empty cart, missing shipping
// address, removing more copies than held, insufficient stock.
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Conflict reports a detected concurrent interleaving, recoverable by retry.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// Internal wraps an unexpected failure. The cause is kept for logging but
// only the message is shown to clients.
func Internal(message string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, cause: cause}
}

// From extracts the *Error from err, or wraps err as an Internal one.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("internal server error", err)
}

// Write renders err as a JSON error response.
func Write(w http.ResponseWriter, err error) {
	apiErr := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(apiErr)
}
