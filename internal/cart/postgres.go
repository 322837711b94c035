// internal/cart/postgres.go
package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore keeps each cart as a single row with a JSONB items document,
// mirroring the one-document-per-user shape of the original store.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	query := `
		SELECT user_id, items, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`
	cart := &Cart{}
	var items []byte
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&cart.UserID, &items, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	if err := json.Unmarshal(items, &cart.Items); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	return cart, nil
}

func (s *PostgresStore) Save(ctx context.Context, cart *Cart) error {
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}

	query := `
		INSERT INTO carts (user_id, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, cart.UserID, items, cart.CreatedAt, cart.UpdatedAt); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
