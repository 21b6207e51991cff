package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// Role is a caller's permission tier, resolved from the Clerk session's
// active organization role.
type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleAgencyAdmin  Role = "AGENCY_ADMIN"
	RoleCAAccountant Role = "CA_ACCOUNTANT"
	RoleCATeam       Role = "CA_TEAM"
	RoleClientAdmin  Role = "CLIENT_ADMIN"
	RoleClientUser   Role = "CLIENT_USER"
)

// Identity is the typed authenticated caller context produced by the auth
// middleware: who is calling, with which role, on behalf of which agency.
//
// Handlers read it once via GetIdentity instead of fishing individual
// values out of the request context by key.
type Identity struct {
	// UserID is the authenticated caller's identifier (Clerk subject).
	UserID string

	// Role is the caller's permission tier within the active agency.
	Role Role

	// AgencyID is the tenant identifier (Clerk organization id) that
	// scopes every query the request performs.
	AgencyID string
}

// IdentityKey is the Echo context key under which Identity is stored.
const IdentityKey = "identity"

// NormalizeRole maps a Clerk organization role string onto a Role.
//
// Clerk custom org roles carry an "org:" prefix and are lowercased
// (e.g. "org:agency_admin"); application code compares the canonical
// uppercase form.
func NormalizeRole(raw string) Role {
	return Role(strings.ToUpper(strings.TrimPrefix(raw, "org:")))
}

// SetIdentity stores the identity in Echo context.
func SetIdentity(c echo.Context, identity *Identity) {
	c.Set(IdentityKey, identity)
}

// GetIdentity retrieves the typed identity from Echo context.
//
// Returns false when the auth middleware has not run for this request.
func GetIdentity(c echo.Context) (*Identity, bool) {
	identity, ok := c.Get(IdentityKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
