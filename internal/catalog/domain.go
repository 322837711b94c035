// internal/catalog/domain.go
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Book represents a title sold by the store.
//
// Stock is the number of sellable copies and is never negative. Version is an
// optimistic-concurrency token bumped on every stock mutation; it is not a
// business field and is never exposed to clients.
type Book struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Price           float64   `json:"price"`
	ISBN            string    `json:"isbn,omitempty"`
	Description     string    `json:"description,omitempty"`
	Genres          []string  `json:"genres,omitempty"`
	PublicationDate time.Time `json:"publication_date,omitempty"`
	PageCount       int       `json:"page_count,omitempty"`
	Stock           int       `json:"stock"`
	Version         int       `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ListFilter narrows and pages a catalog listing.
type ListFilter struct {
	Search   string
	PriceMin *float64
	PriceMax *float64
	Page     int
	Limit    int
}

// Page is one page of a catalog listing.
type Page struct {
	Books      []*Book `json:"results"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}
