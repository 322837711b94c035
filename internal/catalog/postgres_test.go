// internal/catalog/postgres_test.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to a PostgreSQL database for testing. It skips the
// test if the connection cannot be established.
func setupTestDB(t testing.TB) *sql.DB {
	t.Helper()

	pgUser := os.Getenv("PGUSER")
	pgPassword := os.Getenv("PGPASSWORD")
	pgHost := os.Getenv("PGHOST")
	pgPort := os.Getenv("PGPORT")
	pgDB := os.Getenv("PGDATABASE")

	if pgUser == "" {
		pgUser = "user"
	}
	if pgPassword == "" {
		pgPassword = "password"
	}
	if pgHost == "" {
		pgHost = "localhost"
	}
	if pgPort == "" {
		pgPort = "5432"
	}
	if pgDB == "" {
		pgDB = "testdb"
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pgHost, pgPort, pgUser, pgPassword, pgDB)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open database connection: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("skipping: could not connect to postgres: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS books (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			price NUMERIC(10, 2) NOT NULL DEFAULT 0,
			isbn TEXT UNIQUE,
			description TEXT,
			genres TEXT[] NOT NULL DEFAULT '{}',
			publication_date TIMESTAMPTZ,
			page_count INTEGER,
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		t.Fatalf("failed to create books table: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("TRUNCATE TABLE books")
		db.Close()
	})
	return db
}

func TestPostgresDecrementStock(t *testing.T) {
	db := setupTestDB(t)
	store := NewPostgresStore(db)
	ctx := context.Background()

	book := &Book{Title: "Snow Crash", Author: "Stephenson", Price: 9.99, Stock: 3}
	require.NoError(t, store.Create(ctx, book))

	updated, err := store.DecrementStockIfAvailable(ctx, book.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Stock)
	assert.Equal(t, 2, updated.Version)

	_, err = store.DecrementStockIfAvailable(ctx, book.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	current, err := store.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Stock)
}

func TestPostgresDecrementStockConcurrent(t *testing.T) {
	db := setupTestDB(t)
	store := NewPostgresStore(db)
	ctx := context.Background()

	book := &Book{Title: "Last Copy", Author: "Nobody", Stock: 1}
	require.NoError(t, store.Create(ctx, book))

	const contenders = 8
	var wg sync.WaitGroup
	wins := make(chan struct{}, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.DecrementStockIfAvailable(ctx, book.ID, 1); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1)
	current, err := store.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.Stock)
}

func TestPostgresIncrementStockVersioned(t *testing.T) {
	db := setupTestDB(t)
	store := NewPostgresStore(db)
	ctx := context.Background()

	book := &Book{Title: "Versioned", Author: "Anyone", Stock: 5}
	require.NoError(t, store.Create(ctx, book))

	reserved, err := store.DecrementStockIfAvailable(ctx, book.ID, 2)
	require.NoError(t, err)

	require.NoError(t, store.IncrementStockVersioned(ctx, book.ID, 2, reserved.Version))
	assert.ErrorIs(t, store.IncrementStockVersioned(ctx, book.ID, 2, reserved.Version), ErrVersionConflict)

	current, err := store.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, current.Stock)
}

func TestPostgresDecrementDeletedBook(t *testing.T) {
	db := setupTestDB(t)
	store := NewPostgresStore(db)
	ctx := context.Background()

	_, err := store.DecrementStockIfAvailable(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}
