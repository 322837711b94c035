// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore implements Store on top of a books table with a
// CHECK (stock >= 0) constraint.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, book *Book) error {
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	book.Version = 1

	query := `
		INSERT INTO books (id, title, author, price, isbn, description, genres, publication_date, page_count, stock, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.Price, nullString(book.ISBN), book.Description,
		pq.Array(book.Genres), book.PublicationDate, book.PageCount, book.Stock,
		book.Version, book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	query := `
		SELECT id, title, author, price, isbn, description, genres, publication_date, page_count, stock, version, created_at, updated_at
		FROM books
		WHERE id = $1
	`
	return s.scanBook(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) Update(ctx context.Context, book *Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, price = $4, isbn = $5, description = $6,
		    genres = $7, publication_date = $8, page_count = $9, stock = $10,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.Price, nullString(book.ISBN), book.Description,
		pq.Array(book.Genres), book.PublicationDate, book.PageCount, book.Stock,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) (*Page, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	where := "TRUE"
	args := []interface{}{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (title ILIKE $%d OR author ILIKE $%d)", len(args), len(args))
	}
	if filter.PriceMin != nil {
		args = append(args, *filter.PriceMin)
		where += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if filter.PriceMax != nil {
		args = append(args, *filter.PriceMax)
		where += fmt.Sprintf(" AND price <= $%d", len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books WHERE "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`
		SELECT id, title, author, price, isbn, description, genres, publication_date, page_count, stock, version, created_at, updated_at
		FROM books
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		book, err := s.scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return &Page{
		Books:      books,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// DecrementStockIfAvailable is the single synchronization point of the
// checkout path: the stock predicate is the condition of one atomic UPDATE,
// so there is no read-then-write window.
func (s *PostgresStore) DecrementStockIfAvailable(ctx context.Context, id uuid.UUID, quantity int) (*Book, error) {
	query := `
		UPDATE books
		SET stock = stock - $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING id, title, author, price, isbn, description, genres, publication_date, page_count, stock, version, created_at, updated_at
	`
	book, err := s.scanBook(s.db.QueryRowContext(ctx, query, id, quantity))
	if errors.Is(err, ErrNotFound) {
		// No row matched: too few copies, or the book was deleted
		// between cart-add and checkout.
		return nil, ErrInsufficientStock
	}
	return book, err
}

func (s *PostgresStore) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE books
		SET stock = stock + $2, version = version + 1, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) IncrementStockVersioned(ctx context.Context, id uuid.UUID, quantity, expectedVersion int) error {
	query := `
		UPDATE books
		SET stock = stock + $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $3
	`
	result, err := s.db.ExecContext(ctx, query, id, quantity, expectedVersion)
	if err != nil {
		return fmt.Errorf("increment stock versioned: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrVersionConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *PostgresStore) scanBook(row rowScanner) (*Book, error) {
	book := &Book{}
	var genres pq.StringArray
	var isbn, description sql.NullString
	var publicationDate sql.NullTime
	var pageCount sql.NullInt64

	err := row.Scan(
		&book.ID, &book.Title, &book.Author, &book.Price, &isbn, &description,
		&genres, &publicationDate, &pageCount, &book.Stock, &book.Version,
		&book.CreatedAt, &book.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan book: %w", err)
	}

	book.ISBN = isbn.String
	book.Description = description.String
	book.Genres = genres
	if publicationDate.Valid {
		book.PublicationDate = publicationDate.Time
	}
	book.PageCount = int(pageCount.Int64)
	return book, nil
}

// nullString maps the empty string to NULL so the unique constraint on isbn
// only applies to books that actually carry one.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
