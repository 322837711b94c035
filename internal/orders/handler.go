// internal/orders/handler.go
package orders

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bookstore/internal/apierr"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes the order operations. The authenticated user comes from
// the X-User-ID header, the role from X-User-Role, both set by the upstream
// auth layer.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.handlePlace)
	r.Get("/", h.handleQuery)
	r.Get("/{orderID}", h.handleGet)
	r.Delete("/{orderID}", h.handleDelete)
	r.Patch("/{orderID}/status", h.handleUpdateStatus)
}

func (h *Handler) handlePlace(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	var details Details
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		apierr.Write(w, apierr.BadRequest(err.Error()))
		return
	}
	if details.PaymentMethod == "" {
		apierr.Write(w, apierr.BadRequest("payment method is required"))
		return
	}

	view, err := h.service.Place(r.Context(), userID, details, r.Header.Get("Idempotency-Key"))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid order ID"))
		return
	}

	view, err := h.service.Get(r.Context(), userID, orderID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleQuery lists orders. Admins and order managers see every order and
// may filter by status; everyone else sees only their own.
func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	filter := Filter{}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if v := r.URL.Query().Get("status"); v != "" {
		status := Status(v)
		if !status.Valid() {
			apierr.Write(w, apierr.BadRequest("unknown order status"))
			return
		}
		filter.Status = &status
	}
	if !isManager(r) {
		filter.UserID = &userID
	}

	page, err := h.service.Query(r.Context(), filter)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid order ID"))
		return
	}

	view, err := h.service.Delete(r.Context(), userID, orderID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !isManager(r) {
		apierr.Write(w, &apierr.Error{Status: http.StatusForbidden, Message: "forbidden"})
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		apierr.Write(w, apierr.BadRequest("invalid order ID"))
		return
	}

	var req struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Write(w, apierr.BadRequest(err.Error()))
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func isManager(r *http.Request) bool {
	role := r.Header.Get("X-User-Role")
	return role == "admin" || role == "order_manager"
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
