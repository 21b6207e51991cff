package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/agencyhub/internal/errs"
	"github.com/deppfellow/agencyhub/internal/repository"
	"github.com/deppfellow/agencyhub/internal/service"
)

// fakeStore is an in-memory ServicesStore with the same scoping semantics
// as the SQL repository: every operation filters by agency.
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

func newTestService(store service.ServicesStore) *service.ServicesService {
	logger := zerolog.Nop()
	return service.NewServicesService(store, &logger, nil)
}

func TestCreateStampsCallerAndAgency(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	desc := "Monthly bookkeeping and reconciliation"
	created, err := svc.Create(context.Background(), "org_1", "user_1", "Bookkeeping", &desc)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "org_1", created.AgencyID)
	assert.Equal(t, "user_1", created.CreatedBy)
	assert.Equal(t, "Bookkeeping", created.Name)
	require.NotNil(t, created.Description)
	assert.Equal(t, desc, *created.Description)
	assert.NotNil(t, created.Checklists)
}

func TestCreateRejectsDuplicateNameWithinAgency(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), "org_1", "user_1", "Bookkeeping", nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "org_1", "user_2", "Bookkeeping", nil)
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Status)
	assert.Equal(t, "SERVICE_ALREADY_EXISTS", httpErr.Code)

	// The conflicting create performed no insert.
	assert.Len(t, store.services, 1)
}

func TestCreateAllowsSameNameAcrossAgencies(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), "org_1", "user_1", "Bookkeeping", nil)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), "org_2", "user_2", "Bookkeeping", nil)
	require.NoError(t, err)
	assert.Equal(t, "org_2", created.AgencyID)
}

func TestListIsScopedToAgency(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), "org_1", "user_1", "Bookkeeping", nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "org_1", "user_1", "Payroll", nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "org_2", "user_2", "Bookkeeping", nil)
	require.NoError(t, err)

	services, err := svc.List(context.Background(), "org_1")
	require.NoError(t, err)
	assert.Len(t, services, 2)
	for _, s := range services {
		assert.Equal(t, "org_1", s.AgencyID)
	}
}

func TestGetHidesOtherAgencyServices(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	created, err := svc.Create(context.Background(), "org_1", "user_1", "Bookkeeping", nil)
	require.NoError(t, err)

	// Same agency: found.
	got, err := svc.Get(context.Background(), "org_1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Another agency with a valid id: reported as missing, never forbidden.
	_, err = svc.Get(context.Background(), "org_2", created.ID)
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Status)
	assert.Equal(t, "Service not found", httpErr.Message)
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Get(context.Background(), "org_1", uuid.New().String())

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Status)
}

func TestDeleteRemovesOnlyWithinAgency(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	created, err := svc.Create(context.Background(), "org_1", "user_1", "Bookkeeping", nil)
	require.NoError(t, err)

	// Cross-agency delete looks exactly like deleting a missing service.
	err = svc.Delete(context.Background(), "org_2", created.ID)
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Status)

	// The service is still there for its owner.
	_, err = svc.Get(context.Background(), "org_1", created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "org_1", created.ID))

	err = svc.Delete(context.Background(), "org_1", created.ID)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Status)
}
