// internal/accounts/service.go
package accounts

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the accounts service. Token issuance and
// cleanup are handled by an external auth layer; this service only owns
// registration, credential verification and profile data.
type Service interface {
	Register(ctx context.Context, email, name, password string) (*Account, error)
	Authenticate(ctx context.Context, email, password string) (*Account, error)
	Get(ctx context.Context, id uuid.UUID) (*Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*Account, error)

	// Profile returns the shipping fallback data for an account.
	Profile(ctx context.Context, id uuid.UUID) (Profile, error)
}

// ProfileUpdate carries mutable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}
