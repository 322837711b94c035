// internal/accounts/store.go
package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("account not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrNoCredential = errors.New("credential not found")
)

// Store persists accounts and their credentials.
type Store interface {
	Create(ctx context.Context, account *Account, credential *Credential) error
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	CredentialFor(ctx context.Context, accountID uuid.UUID) (*Credential, error)
	Update(ctx context.Context, account *Account) error
}
