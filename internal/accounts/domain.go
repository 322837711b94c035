// internal/accounts/domain.go
package accounts

import (
	"time"

	"github.com/google/uuid"
)

// Role gates admin and order-management endpoints. Enforcement happens at
// the router; services only record the role.
type Role string

const (
	RoleUser         Role = "user"
	RoleAdmin        Role = "admin"
	RoleOrderManager Role = "order_manager"
)

// Account is a registered user of the store.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credential holds the salted password hash for an account.
type Credential struct {
	AccountID    uuid.UUID
	PasswordHash string
	Salt         string
}

// Profile is the subset of an account the order factory falls back to for
// shipping address and contact number.
type Profile struct {
	Address string
	Phone   string
}
