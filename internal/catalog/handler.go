// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bookstore/internal/apierr"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the catalog endpoints. Create/update/delete are expected to
// be admin-gated by upstream middleware.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{bookID}", h.handleGet)
	r.Patch("/{bookID}", h.handleUpdate)
	r.Delete("/{bookID}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var book Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		apierr.Write(w, apierr.BadRequest(err.Error()))
		return
	}

	created, err := h.service.CreateBook(r.Context(), &book)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid book ID"))
		return
	}

	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid book ID"))
		return
	}

	var update BookUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		apierr.Write(w, apierr.BadRequest(err.Error()))
		return
	}

	book, err := h.service.UpdateBook(r.Context(), id, update)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bookID"))
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid book ID"))
		return
	}

	book, err := h.service.DeleteBook(r.Context(), id)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{Search: q.Get("search")}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	if v := q.Get("priceMin"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMin = &f
		}
	}
	if v := q.Get("priceMax"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMax = &f
		}
	}

	page, err := h.service.QueryBooks(r.Context(), filter)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}
