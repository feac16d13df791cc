// Package user models the users/{uid} profile document: role, verification,
// presence, and delivery contact fields.
package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a referenced profile does not exist.
var ErrNotFound = errors.New("user not found")

// Role determines which views a signed-in user may reach.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a raw role string. Unknown values default to customer,
// matching how legacy profiles without a role field are treated.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleVendor:
		return RoleVendor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

// Profile is a stored user document. Customers are verified on signup;
// vendors must be verified by an admin before their shop is listed. Online
// flips on sign-in and off on sign-out.
type Profile struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	Verified  bool
	Online    bool
	Phone     string
	Address   string
	PhotoURL  string
	CreatedAt time.Time
}

// Repository defines persistence operations for profiles.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)

	// UpdateContact sets the mutable profile fields (name, phone, address,
	// photo) without touching role or flags.
	UpdateContact(ctx context.Context, id, name, phone, address, photoURL string) error

	SetOnline(ctx context.Context, id string, online bool) error
	SetVerified(ctx context.Context, id string, verified bool) error
	ListByRole(ctx context.Context, role Role) ([]Profile, error)
}
