// internal/orders/domain.go
package orders

import (
	"time"

	"bookstore/internal/catalog"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// allowedTransitions is the explicit lifecycle table. Delivered and
// cancelled are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

// CanTransitionTo reports whether s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Payment method labels. Stored only; no payment is ever processed.
const (
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentCreditCard     = "credit_card"
	PaymentPaypal         = "paypal"
)

// Item is one order line: a snapshot copied from the cart at creation time,
// never resynced with later book or cart changes.
type Item struct {
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

// Order is created once per successful checkout. The item list is immutable.
type Order struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Items             []Item    `json:"items"`
	Status            Status    `json:"status"`
	ShippingAddress   string    `json:"shipping_address"`
	PaymentMethod     string    `json:"payment_method"`
	ContactNumber     string    `json:"contact_number,omitempty"`
	AdditionalDetails string    `json:"additional_details,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Details is the user-supplied part of a checkout request.
type Details struct {
	PaymentMethod     string `json:"paymentMethod"`
	ShippingAddress   string `json:"shippingAddress,omitempty"`
	ContactNumber     string `json:"contactNumber,omitempty"`
	AdditionalDetails string `json:"additionalDetails,omitempty"`
}

// View is an order with book references resolved, for responses.
type View struct {
	Order
	Items []ViewItem `json:"items"`
}

type ViewItem struct {
	Book     *catalog.Book `json:"book"`
	Quantity int           `json:"quantity"`
}

// Filter narrows and pages an order listing.
type Filter struct {
	UserID *uuid.UUID
	Status *Status
	Page   int
	Limit  int
}

// Page is one page of an order listing, newest first.
type Page struct {
	Orders     []*Order `json:"results"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}
