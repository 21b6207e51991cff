package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/agencyhub/internal/handler"
	"github.com/deppfellow/agencyhub/internal/middleware"
	"github.com/deppfellow/agencyhub/internal/repository"
	"github.com/deppfellow/agencyhub/internal/server"
	"github.com/deppfellow/agencyhub/internal/service"
)

// fakeStore mirrors the SQL repository's tenant scoping in memory.
type fakeStore struct {
	services map[string]*repository.Service
}

func newFakeStore() *fakeStore {
	return &fakeStore{services: map[string]*repository.Service{}}
}

func (f *fakeStore) ExistsByAgencyAndName(_ context.Context, agencyID, name string) (bool, error) {
	for _, svc := range f.services {
		if svc.AgencyID == agencyID && svc.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Insert(_ context.Context, agencyID, name string, description *string, createdBy string) (*repository.Service, error) {
	svc := &repository.Service{
		ID:          uuid.New().String(),
		AgencyID:    agencyID,
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		Checklists:  []repository.Checklist{},
	}
	f.services[svc.ID] = svc
	return svc, nil
}

func (f *fakeStore) ListByAgency(_ context.Context, agencyID string) ([]repository.Service, error) {
	out := []repository.Service{}
	for _, svc := range f.services {
		if svc.AgencyID == agencyID {
			out = append(out, *svc)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, agencyID, serviceID string) (*repository.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok || svc.AgencyID != agencyID {
		return nil, pgx.ErrNoRows
	}
	copied := *svc
	return &copied, nil
}

func (f *fakeStore) Delete(_ context.Context, agencyID, serviceID string) (bool, error) {
	svc, ok := f.services[serviceID]
	if !ok || svc.AgencyID != agencyID {
		return false, nil
	}
	delete(f.services, serviceID)
	return true, nil
}

// countByName counts stored rows matching (agency, name), bypassing the
// API to verify what actually persisted.
func (f *fakeStore) countByName(agencyID, name string) int {
	count := 0
	for _, svc := range f.services {
		if svc.AgencyID == agencyID && svc.Name == name {
			count++
		}
	}
	return count
}

// testIdentity injects the caller identity that RequireAuth would have
// resolved from the Clerk session, driven by test headers.
func testIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role := c.Request().Header.Get("X-Test-Role")
		if role == "" {
			return next(c)
		}
		middleware.SetIdentity(c, &middleware.Identity{
			UserID:   c.Request().Header.Get("X-Test-User"),
			Role:     middleware.Role(role),
			AgencyID: c.Request().Header.Get("X-Test-Agency"),
		})
		return next(c)
	}
}

// newTestAPI wires the service routes the same way the router does, with
// the Clerk middleware swapped for header-driven identities.
func newTestAPI(store *fakeStore) *echo.Echo {
	logger := zerolog.Nop()
	s := &server.Server{Logger: &logger}

	services := service.NewServicesService(store, &logger, nil)
	base := handler.NewHandler(s)
	h := handler.NewServicesHandler(base, services)
	auth := middleware.NewAuthMiddleware(s)
	global := middleware.NewGlobalMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = global.GlobalErrorHandler

	g := e.Group("/services", testIdentity)

	writerRoles := []middleware.Role{
		middleware.RoleSuperAdmin,
		middleware.RoleAgencyAdmin,
		middleware.RoleCAAccountant,
	}
	listRoles := []middleware.Role{
		middleware.RoleSuperAdmin,
		middleware.RoleAgencyAdmin,
		middleware.RoleCAAccountant,
		middleware.RoleCATeam,
		middleware.RoleClientAdmin,
		middleware.RoleClientUser,
	}
	getRoles := []middleware.Role{
		middleware.RoleSuperAdmin,
		middleware.RoleAgencyAdmin,
		middleware.RoleCAAccountant,
		middleware.RoleClientAdmin,
		middleware.RoleClientUser,
	}

	g.POST("", handler.Handle(base, h.Create, http.StatusCreated), auth.RequireRole(writerRoles...))
	g.GET("", handler.Handle(base, h.List, http.StatusOK), auth.RequireRole(listRoles...))
	g.GET("/:id", handler.Handle(base, h.Get, http.StatusOK), auth.RequireRole(getRoles...))
	g.DELETE("/:id", handler.HandleNoContent(base, h.Delete, http.StatusNoContent), auth.RequireRole(writerRoles...))

	return e
}

func doRequest(e *echo.Echo, method, path, body, role, agencyID string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if role != "" {
		req.Header.Set("X-Test-Role", role)
		req.Header.Set("X-Test-Agency", agencyID)
		req.Header.Set("X-Test-User", "user_"+agencyID)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateServiceReturnsCreatedRecord(t *testing.T) {
	e := newTestAPI(newFakeStore())

	rec := doRequest(e, http.MethodPost, "/services",
		`{"name":"Bookkeeping","description":"Monthly reconciliation"}`,
		"AGENCY_ADMIN", "org_1")

	require.Equal(t, http.StatusCreated, rec.Code)

	var got repository.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "org_1", got.AgencyID)
	assert.Equal(t, "user_org_1", got.CreatedBy)
	assert.Equal(t, "Bookkeeping", got.Name)
	assert.Equal(t, int64(0), got.AssignedClients)
	assert.NotNil(t, got.Checklists)
}

func TestCreateServiceDuplicateNameConflicts(t *testing.T) {
	store := newFakeStore()
	e := newTestAPI(store)

	rec := doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SERVICE_ALREADY_EXISTS", body["code"])

	// The rejected create must not have touched the store.
	assert.Equal(t, 1, store.countByName("org_1", "Bookkeeping"))
}

func TestCreateServiceSameNameDifferentAgencies(t *testing.T) {
	e := newTestAPI(newFakeStore())

	rec := doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "AGENCY_ADMIN", "org_2")
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateServiceValidation(t *testing.T) {
	e := newTestAPI(newFakeStore())

	rec := doRequest(e, http.MethodPost, "/services", `{}`, "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []struct {
			Field string `json:"field"`
			Error string `json:"error"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "name", body.Errors[0].Field)
	assert.Equal(t, "is required", body.Errors[0].Error)

	rec = doRequest(e, http.MethodPost, "/services", `{"name":`, "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListServicesTenantIsolation(t *testing.T) {
	e := newTestAPI(newFakeStore())

	doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "AGENCY_ADMIN", "org_1")
	doRequest(e, http.MethodPost, "/services", `{"name":"Payroll"}`, "AGENCY_ADMIN", "org_1")
	doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "AGENCY_ADMIN", "org_2")

	rec := doRequest(e, http.MethodGet, "/services", "", "CLIENT_USER", "org_1")
	require.Equal(t, http.StatusOK, rec.Code)

	var services []repository.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &services))
	assert.Len(t, services, 2)
	for _, svc := range services {
		assert.Equal(t, "org_1", svc.AgencyID)
	}
}

func TestGetServiceCrossTenantLooksMissing(t *testing.T) {
	store := newFakeStore()
	e := newTestAPI(store)

	rec := doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created repository.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(e, http.MethodGet, "/services/"+created.ID, "", "AGENCY_ADMIN", "org_2")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Service not found", body["message"])
}

func TestGetServiceIncludesDerivedData(t *testing.T) {
	store := newFakeStore()
	e := newTestAPI(store)

	rec := doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created repository.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Simulate client assignments and checklist rows accumulated since
	// creation.
	stored := store.services[created.ID]
	stored.AssignedClients = 3
	stored.Checklists = []repository.Checklist{
		{ID: uuid.New().String(), ServiceID: created.ID, Name: "Collect documents"},
	}

	rec = doRequest(e, http.MethodGet, "/services/"+created.ID, "", "CLIENT_ADMIN", "org_1")
	require.Equal(t, http.StatusOK, rec.Code)

	var got repository.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(3), got.AssignedClients)
	require.Len(t, got.Checklists, 1)
	assert.Equal(t, "Collect documents", got.Checklists[0].Name)
}

func TestGetServiceInvalidID(t *testing.T) {
	e := newTestAPI(newFakeStore())

	rec := doRequest(e, http.MethodGet, "/services/not-a-uuid", "", "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteServiceLifecycle(t *testing.T) {
	e := newTestAPI(newFakeStore())

	rec := doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created repository.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(e, http.MethodDelete, "/services/"+created.ID, "", "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/services/"+created.ID, "", "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/services/"+created.ID, "", "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoleEnforcement(t *testing.T) {
	e := newTestAPI(newFakeStore())

	// Client-side roles can browse but never mutate.
	rec := doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "CLIENT_USER", "org_1")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(e, http.MethodGet, "/services", "", "CLIENT_USER", "org_1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodPost, "/services", `{"name":"Bookkeeping"}`, "AGENCY_ADMIN", "org_1")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created repository.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(e, http.MethodDelete, "/services/"+created.ID, "", "CA_TEAM", "org_1")
	require.Equal(t, http.StatusForbidden, rec.Code)

	// CA_TEAM may browse the catalog but not fetch individual services.
	rec = doRequest(e, http.MethodGet, "/services", "", "CA_TEAM", "org_1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/services/"+created.ID, "", "CA_TEAM", "org_1")
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Unknown/garbage roles are rejected like any role outside the list.
	rec = doRequest(e, http.MethodGet, "/services", "", "SOMETHING_ELSE", "org_1")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

// TestCatalogLifecycleAcrossAgencies walks one catalog through its whole
// life as two agencies interact with it: agency A creates "Audit", a
// duplicate create bounces without persisting anything, agency B never
// sees A's catalog, and after A deletes the service it is gone for good.
func TestCatalogLifecycleAcrossAgencies(t *testing.T) {
	store := newFakeStore()
	e := newTestAPI(store)

	// Agency A creates "Audit".
	rec := doRequest(e, http.MethodPost, "/services", `{"name":"Audit"}`, "AGENCY_ADMIN", "org_a")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created repository.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "org_a", created.AgencyID)
	assert.Equal(t, "user_org_a", created.CreatedBy)
	assert.Equal(t, int64(0), created.AssignedClients)

	// A second "Audit" under agency A conflicts and leaves exactly one row.
	rec = doRequest(e, http.MethodPost, "/services", `{"name":"Audit"}`, "AGENCY_ADMIN", "org_a")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, store.countByName("org_a", "Audit"))

	// Agency B's catalog does not contain A's service.
	rec = doRequest(e, http.MethodGet, "/services", "", "AGENCY_ADMIN", "org_b")
	require.Equal(t, http.StatusOK, rec.Code)

	var bServices []repository.Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bServices))
	assert.Empty(t, bServices)

	// Agency A deletes the service; a subsequent get finds nothing.
	rec = doRequest(e, http.MethodDelete, "/services/"+created.ID, "", "AGENCY_ADMIN", "org_a")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(e, http.MethodGet, "/services/"+created.ID, "", "AGENCY_ADMIN", "org_a")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, store.countByName("org_a", "Audit"))
}

func TestMissingIdentityIsUnauthorized(t *testing.T) {
	e := newTestAPI(newFakeStore())

	rec := doRequest(e, http.MethodGet, "/services", "", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
