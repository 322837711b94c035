// internal/accounts/implementation.go
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore/internal/apierr"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// service implements the Service interface.
type service struct {
	store       Store
	rateLimiter *rate.Limiter
}

// NewService creates a new accounts service instance.
func NewService(store Store) Service {
	return &service{
		store:       store,
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 5), // 5 requests per minute
	}
}

func (s *service) Register(ctx context.Context, email, name, password string) (*Account, error) {
	if !s.rateLimiter.Allow() {
		return nil, apierr.Conflict("rate limit exceeded")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || name == "" {
		return nil, apierr.BadRequest("email and name are required")
	}
	if len(password) < 8 {
		return nil, apierr.BadRequest("password must be at least 8 characters")
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return nil, apierr.BadRequest("email already registered")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, salt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := &Account{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	credential := &Credential{
		AccountID:    account.ID,
		PasswordHash: passwordHash,
		Salt:         salt,
	}

	if err := s.store.Create(ctx, account, credential); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apierr.BadRequest("email already registered")
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	if !s.rateLimiter.Allow() {
		return nil, apierr.Conflict("rate limit exceeded")
	}

	account, err := s.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.BadRequest("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	credential, err := s.store.CredentialFor(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	ok, err := verifyPassword(password, credential.Salt, credential.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, apierr.BadRequest("invalid email or password")
	}
	return account, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	account, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apierr.NotFound("Account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		account.Name = *update.Name
	}
	if update.Address != nil {
		account.Address = *update.Address
	}
	if update.Phone != nil {
		account.Phone = *update.Phone
	}
	account.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

func (s *service) Profile(ctx context.Context, id uuid.UUID) (Profile, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Address: account.Address, Phone: account.Phone}, nil
}
