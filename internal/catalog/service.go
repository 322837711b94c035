// internal/catalog/service.go
package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the catalog service.
type Service interface {
	CreateBook(ctx context.Context, book *Book) (*Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, update BookUpdate) (*Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) (*Book, error)
	QueryBooks(ctx context.Context, filter ListFilter) (*Page, error)
}

// BookUpdate carries the mutable display fields of a book. Nil fields are
// left unchanged. Stock changes outside the checkout path also go through
// here (restocking by an admin).
type BookUpdate struct {
	Title       *string   `json:"title"`
	Author      *string   `json:"author"`
	Price       *float64  `json:"price"`
	ISBN        *string   `json:"isbn"`
	Description *string   `json:"description"`
	Genres      *[]string `json:"genres"`
	Stock       *int      `json:"stock"`
}
