package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/agencyhub/internal/errs"
	"github.com/deppfellow/agencyhub/internal/server"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleAgencyAdmin, NormalizeRole("org:agency_admin"))
	assert.Equal(t, RoleSuperAdmin, NormalizeRole("org:super_admin"))
	assert.Equal(t, RoleClientUser, NormalizeRole("CLIENT_USER"))
	assert.Equal(t, Role("ADMIN"), NormalizeRole("org:admin"))
}

func newAuthTestContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func newTestAuthMiddleware() *AuthMiddleware {
	logger := zerolog.Nop()
	return NewAuthMiddleware(&server.Server{Logger: &logger})
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	auth := newTestAuthMiddleware()
	c := newAuthTestContext()

	next := func(c echo.Context) error { return nil }
	err := auth.RequireRole(RoleAgencyAdmin)(next)(c)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestRequireRoleRejectsDisallowedRole(t *testing.T) {
	auth := newTestAuthMiddleware()
	c := newAuthTestContext()
	SetIdentity(c, &Identity{UserID: "user_1", Role: RoleClientUser, AgencyID: "org_1"})

	called := false
	next := func(c echo.Context) error {
		called = true
		return nil
	}

	err := auth.RequireRole(RoleSuperAdmin, RoleAgencyAdmin, RoleCAAccountant)(next)(c)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
	assert.False(t, called)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	auth := newTestAuthMiddleware()
	c := newAuthTestContext()
	SetIdentity(c, &Identity{UserID: "user_1", Role: RoleCAAccountant, AgencyID: "org_1"})

	called := false
	next := func(c echo.Context) error {
		called = true
		return nil
	}

	require.NoError(t, auth.RequireRole(RoleSuperAdmin, RoleAgencyAdmin, RoleCAAccountant)(next)(c))
	assert.True(t, called)
}

func TestGetIdentity(t *testing.T) {
	c := newAuthTestContext()

	_, ok := GetIdentity(c)
	assert.False(t, ok)

	identity := &Identity{UserID: "user_1", Role: RoleCATeam, AgencyID: "org_1"}
	SetIdentity(c, identity)

	got, ok := GetIdentity(c)
	require.True(t, ok)
	assert.Equal(t, identity, got)
}
