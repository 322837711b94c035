// internal/cart/handler.go
package cart

import (
	"context"
	"encoding/json"
	"net/http"

	"bookstore/internal/apierr"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes the cart operations. The authenticated user is taken from
// the X-User-ID header set by the upstream auth layer.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleGet)
	r.Post("/items", h.handleAdd)
	r.Put("/items", h.handleUpdate)
	r.Delete("/items", h.handleRemove)
	r.Delete("/items/{bookID}", h.handleRemoveBook)
	r.Delete("/", h.handleClear)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	view, err := h.service.Get(r.Context(), userID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	h.mutateLines(w, r, h.service.Add)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	h.mutateLines(w, r, h.service.UpdateQuantities)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	h.mutateLines(w, r, h.service.Remove)
}

func (h *Handler) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	bookID, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid book ID"))
		return
	}

	view, err := h.service.RemoveBook(r.Context(), userID, bookID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	cart, err := h.service.Clear(r.Context(), userID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) mutateLines(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID uuid.UUID, lines []Line) (*View, error)) {
	userID, err := userIDFrom(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	var req struct {
		Items []Line `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.BadRequest(err.Error()))
		return
	}
	if len(req.Items) == 0 {
		apierr.Write(w, apierr.BadRequest("items must not be empty"))
		return
	}

	view, err := op(r.Context(), userID, req.Items)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func userIDFrom(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.Header.Get("X-User-ID"))
	if err != nil {
		return uuid.Nil, apierr.BadRequest("missing or invalid user identity")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
