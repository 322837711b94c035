// internal/catalog/memory.go
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store with the same conditional-update
// semantics as PostgresStore. It backs tests and local runs without a
// database; the conditional decrement is atomic under the store mutex.
type MemoryStore struct {
	mu    sync.Mutex
	books map[uuid.UUID]*Book
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{books: make(map[uuid.UUID]*Book)}
}

func (s *MemoryStore) Create(ctx context.Context, book *Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	book.Version = 1
	s.books[book.ID] = cloneBook(book)
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := s.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBook(book), nil
}

func (s *MemoryStore) Update(ctx context.Context, book *Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.books[book.ID]
	if !ok {
		return ErrNotFound
	}
	updated := cloneBook(book)
	updated.Version = existing.Version
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	s.books[book.ID] = updated
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return ErrNotFound
	}
	delete(s.books, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, filter ListFilter) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []*Book{}
	for _, book := range s.books {
		if filter.Search != "" {
			q := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(book.Title), q) && !strings.Contains(strings.ToLower(book.Author), q) {
				continue
			}
		}
		if filter.PriceMin != nil && book.Price < *filter.PriceMin {
			continue
		}
		if filter.PriceMax != nil && book.Price > *filter.PriceMax {
			continue
		}
		matched = append(matched, cloneBook(book))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	page, limit := normalizePage(filter.Page, filter.Limit)
	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &Page{
		Books:      matched[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func (s *MemoryStore) DecrementStockIfAvailable(ctx context.Context, id uuid.UUID, quantity int) (*Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := s.books[id]
	if !ok || book.Stock < quantity {
		return nil, ErrInsufficientStock
	}
	book.Stock -= quantity
	book.Version++
	book.UpdatedAt = time.Now()
	return cloneBook(book), nil
}

func (s *MemoryStore) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := s.books[id]
	if !ok {
		return ErrNotFound
	}
	book.Stock += quantity
	book.Version++
	book.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) IncrementStockVersioned(ctx context.Context, id uuid.UUID, quantity, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := s.books[id]
	if !ok || book.Version != expectedVersion {
		return ErrVersionConflict
	}
	book.Stock += quantity
	book.Version++
	book.UpdatedAt = time.Now()
	return nil
}

func cloneBook(book *Book) *Book {
	clone := *book
	clone.Genres = append([]string(nil), book.Genres...)
	return &clone
}
