package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/agencyhub/internal/server"
)

// Authentication runs after EnhanceContext in the middleware chain
// (EnhanceContext is global, auth is group-scoped), so identity fields
// reach the request-scoped logger only through AttachIdentityLogFields.
// This drives a request through that exact ordering and checks the
// handler's log output.
func TestRequestLoggerCarriesIdentityFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	s := &server.Server{Logger: &logger}

	e := echo.New()
	e.Use(RequestID())
	e.Use(NewContextEnhancer(s).EnhanceContext())

	authLike := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := &Identity{UserID: "user_1", Role: RoleAgencyAdmin, AgencyID: "org_1"}
			SetIdentity(c, identity)
			AttachIdentityLogFields(c, identity)
			c.Set(UserIDKey, identity.UserID)
			c.Set(UserRoleKey, string(identity.Role))
			return next(c)
		}
	}

	g := e.Group("/services", authLike)
	g.GET("", func(c echo.Context) error {
		GetLogger(c).Info().Msg("handling")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	out := buf.String()
	assert.Contains(t, out, `"user_id":"user_1"`)
	assert.Contains(t, out, `"user_role":"AGENCY_ADMIN"`)
	assert.Contains(t, out, `"request_id"`)
	assert.Contains(t, out, `"path":"/services"`)
}

// Requests that never authenticate still get a request-scoped logger,
// just without identity fields.
func TestRequestLoggerWithoutIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	s := &server.Server{Logger: &logger}

	e := echo.New()
	e.Use(RequestID())
	e.Use(NewContextEnhancer(s).EnhanceContext())

	e.GET("/status", func(c echo.Context) error {
		GetLogger(c).Info().Msg("handling")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	out := buf.String()
	assert.Contains(t, out, `"request_id"`)
	assert.NotContains(t, out, "user_id")
}
