// internal/accounts/memory.go
package accounts

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and local runs.
type MemoryStore struct {
	mu          sync.Mutex
	accounts    map[uuid.UUID]*Account
	credentials map[uuid.UUID]*Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:    make(map[uuid.UUID]*Account),
		credentials: make(map[uuid.UUID]*Credential),
	}
}

func (s *MemoryStore) Create(ctx context.Context, account *Account, credential *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return ErrEmailTaken
		}
	}
	clone := *account
	s.accounts[account.ID] = &clone
	cred := *credential
	s.credentials[account.ID] = &cred
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *account
	return &clone, nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CredentialFor(ctx context.Context, accountID uuid.UUID) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	credential, ok := s.credentials[accountID]
	if !ok {
		return nil, ErrNoCredential
	}
	clone := *credential
	return &clone, nil
}

func (s *MemoryStore) Update(ctx context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; !ok {
		return ErrNotFound
	}
	clone := *account
	s.accounts[account.ID] = &clone
	return nil
}
