// internal/catalog/implementation.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"bookstore/internal/apierr"

	"github.com/google/uuid"
)

// service implements the Service interface.
type service struct {
	store Store
}

// NewService creates a new catalog service instance.
func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) CreateBook(ctx context.Context, book *Book) (*Book, error) {
	if book.Title == "" || book.Author == "" {
		return nil, apierr.BadRequest("title and author are required")
	}
	if book.Price < 0 {
		return nil, apierr.BadRequest("price cannot be negative")
	}
	if book.Stock < 0 {
		return nil, apierr.BadRequest("stock cannot be negative")
	}
	if err := s.store.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

func (s *service) GetBook(ctx context.Context, id uuid.UUID) (*Book, error) {
	book, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.NotFound("Book not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

func (s *service) UpdateBook(ctx context.Context, id uuid.UUID, update BookUpdate) (*Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		book.Title = *update.Title
	}
	if update.Author != nil {
		book.Author = *update.Author
	}
	if update.Price != nil {
		if *update.Price < 0 {
			return nil, apierr.BadRequest("price cannot be negative")
		}
		book.Price = *update.Price
	}
	if update.ISBN != nil {
		book.ISBN = *update.ISBN
	}
	if update.Description != nil {
		book.Description = *update.Description
	}
	if update.Genres != nil {
		book.Genres = *update.Genres
	}
	if update.Stock != nil {
		if *update.Stock < 0 {
			return nil, apierr.BadRequest("stock cannot be negative")
		}
		book.Stock = *update.Stock
	}

	if err := s.store.Update(ctx, book); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apierr.NotFound("Book not found")
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return book, nil
}

func (s *service) DeleteBook(ctx context.Context, id uuid.UUID) (*Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apierr.NotFound("Book not found")
		}
		return nil, fmt.Errorf("failed to delete book: %w", err)
	}
	return book, nil
}

func (s *service) QueryBooks(ctx context.Context, filter ListFilter) (*Page, error) {
	page, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, apierr.Internal("Error Fetching Books", err)
	}
	return page, nil
}
