// internal/accounts/postgres.go
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, account *Account, credential *Credential) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	accountQuery := `
		INSERT INTO accounts (id, email, name, address, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, accountQuery,
		account.ID, account.Email, account.Name, account.Address, account.Phone,
		account.Role, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}

	credQuery := `
		INSERT INTO credentials (account_id, password_hash, salt)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.ExecContext(ctx, credQuery, credential.AccountID, credential.PasswordHash, credential.Salt); err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}

	return tx.Commit()
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return s.findOne(ctx, `WHERE email = $1`, email)
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg interface{}) (*Account, error) {
	query := `
		SELECT id, email, name, address, phone, role, created_at, updated_at
		FROM accounts ` + where
	account := &Account{}
	var address, phone sql.NullString
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID, &account.Email, &account.Name, &address, &phone,
		&account.Role, &account.CreatedAt, &account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	account.Address = address.String
	account.Phone = phone.String
	return account, nil
}

func (s *PostgresStore) CredentialFor(ctx context.Context, accountID uuid.UUID) (*Credential, error) {
	query := `
		SELECT account_id, password_hash, salt
		FROM credentials
		WHERE account_id = $1
	`
	credential := &Credential{}
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(&credential.AccountID, &credential.PasswordHash, &credential.Salt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("query credential: %w", err)
	}
	return credential, nil
}

func (s *PostgresStore) Update(ctx context.Context, account *Account) error {
	query := `
		UPDATE accounts
		SET name = $2, address = $3, phone = $4, role = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		account.ID, account.Name, account.Address, account.Phone, account.Role, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
