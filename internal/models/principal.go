package models

import "github.com/google/uuid"

// Principal is the acting party of a request. There are exactly two
// implementations: an authenticated user and the anonymous principal.
// Callers check capabilities through the interface and never branch on
// the concrete type.
type Principal interface {
	// Can reports whether the principal holds the permission flag.
	Can(perm Permission) bool
	// IsAdministrator is shorthand for Can(PermissionAdmin).
	IsAdministrator() bool
	// IsAuthenticated reports whether a real user backs this principal.
	IsAuthenticated() bool
	// UserID returns the backing user's ID, or uuid.Nil for anonymous.
	UserID() uuid.UUID
	// User returns the backing user, or nil for anonymous.
	User() *User
}

// AuthenticatedPrincipal wraps a loaded user.
type AuthenticatedPrincipal struct {
	user *User
}

// NewAuthenticatedPrincipal builds a principal for a loaded user.
func NewAuthenticatedPrincipal(user *User) *AuthenticatedPrincipal {
	return &AuthenticatedPrincipal{user: user}
}

func (p *AuthenticatedPrincipal) Can(perm Permission) bool { return p.user.Can(perm) }
func (p *AuthenticatedPrincipal) IsAdministrator() bool    { return p.user.IsAdministrator() }
func (p *AuthenticatedPrincipal) IsAuthenticated() bool    { return true }
func (p *AuthenticatedPrincipal) UserID() uuid.UUID        { return p.user.ID }
func (p *AuthenticatedPrincipal) User() *User              { return p.user }

// AnonymousPrincipal answers false to every capability check.
type AnonymousPrincipal struct{}

func (AnonymousPrincipal) Can(perm Permission) bool { return false }
func (AnonymousPrincipal) IsAdministrator() bool    { return false }
func (AnonymousPrincipal) IsAuthenticated() bool    { return false }
func (AnonymousPrincipal) UserID() uuid.UUID        { return uuid.Nil }
func (AnonymousPrincipal) User() *User              { return nil }

// Compile-time checks
var (
	_ Principal = (*AuthenticatedPrincipal)(nil)
	_ Principal = AnonymousPrincipal{}
)
