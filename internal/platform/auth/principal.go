package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role is the single role tag carried by every account.
type Role string

const (
	RoleAdmin        Role = "admin"
	RolePatient      Role = "patient"
	RoleProfessional Role = "professional"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePatient, RoleProfessional:
		return true
	}
	return false
}

// Principal is the authenticated caller of a request.
type Principal struct {
	AccountID uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
}

// IsAdmin is the capability check consumed wherever visibility or mutation is
// restricted to administrators.
func IsAdmin(p *Principal) bool {
	return p != nil && p.Role == RoleAdmin
}

type contextKey string

const (
	principalKey  contextKey = "principal"
	remoteAddrKey contextKey = "remote_addr"
)

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated caller, or nil for anonymous
// requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// WithRemoteAddr returns a copy of ctx carrying the client network address.
func WithRemoteAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, remoteAddrKey, addr)
}

// RemoteAddrFromContext returns the client network address, if known.
func RemoteAddrFromContext(ctx context.Context) string {
	addr, _ := ctx.Value(remoteAddrKey).(string)
	return addr
}
