package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/agencyhub/internal/errs"
	"github.com/deppfellow/agencyhub/internal/lib/job"
	"github.com/deppfellow/agencyhub/internal/repository"
)

// ServicesStore is the persistence surface ServicesService needs. The
// pgx-backed repository satisfies it; tests swap in an in-memory fake.
type ServicesStore interface {
	ExistsByAgencyAndName(ctx context.Context, agencyID, name string) (bool, error)
	Insert(ctx context.Context, agencyID, name string, description *string, createdBy string) (*repository.Service, error)
	ListByAgency(ctx context.Context, agencyID string) ([]repository.Service, error)
	GetByID(ctx context.Context, agencyID, serviceID string) (*repository.Service, error)
	Delete(ctx context.Context, agencyID, serviceID string) (bool, error)
}

// ServicesService implements the service catalog rules: tenant scoping,
// per-agency name uniqueness, and create notifications.
type ServicesService struct {
	store  ServicesStore
	logger *zerolog.Logger
	jobs   *job.JobService
}

// NewServicesService constructs a ServicesService. jobs may be nil in
// tests; notification enqueueing is then skipped.
func NewServicesService(store ServicesStore, logger *zerolog.Logger, jobs *job.JobService) *ServicesService {
	return &ServicesService{
		store:  store,
		logger: logger,
		jobs:   jobs,
	}
}

// Create adds a new service to the agency's catalog, stamped with the
// caller as creator.
//
// The name must be unique within the agency. The existence pre-check
// produces the friendly 409; if two requests race past it, the unique
// constraint fires on insert and the global error handler maps that to
// the same 409.
func (s *ServicesService) Create(ctx context.Context, agencyID, userID, name string, description *string) (*repository.Service, error) {
	exists, err := s.store.ExistsByAgencyAndName(ctx, agencyID, name)
	if err != nil {
		return nil, errors.Wrap(err, "checking service name uniqueness")
	}
	if exists {
		code := "SERVICE_ALREADY_EXISTS"
		return nil, errs.NewConflictError("Service with this name already exists for the agency", true, &code)
	}

	svc, err := s.store.Insert(ctx, agencyID, name, description, userID)
	if err != nil {
		return nil, err
	}

	s.enqueueCreatedNotification(svc)

	return svc, nil
}

// List returns every service in the agency's catalog.
func (s *ServicesService) List(ctx context.Context, agencyID string) ([]repository.Service, error) {
	services, err := s.store.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, errors.Wrap(err, "listing services")
	}
	return services, nil
}

// Get returns a single service from the agency's catalog.
//
// A service belonging to another agency is reported as missing, not as
// forbidden, so service IDs never leak across tenants.
func (s *ServicesService) Get(ctx context.Context, agencyID, serviceID string) (*repository.Service, error) {
	svc, err := s.store.GetByID(ctx, agencyID, serviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NewNotFoundError("Service not found", true, nil)
		}
		return nil, errors.Wrap(err, "fetching service")
	}
	return svc, nil
}

// Delete removes a service from the agency's catalog, along with its
// checklists and client assignments.
func (s *ServicesService) Delete(ctx context.Context, agencyID, serviceID string) error {
	deleted, err := s.store.Delete(ctx, agencyID, serviceID)
	if err != nil {
		return errors.Wrap(err, "deleting service")
	}
	if !deleted {
		return errs.NewNotFoundError("Service not found", true, nil)
	}
	return nil
}

// enqueueCreatedNotification pushes a background notification task for a
// freshly created service. Failures are logged and swallowed: the service
// row is already committed and the API response must not depend on Redis.
func (s *ServicesService) enqueueCreatedNotification(svc *repository.Service) {
	if s.jobs == nil {
		return
	}

	task, err := job.NewServiceCreatedTask(svc.ID, svc.Name, svc.AgencyID, svc.CreatedBy)
	if err != nil {
		s.logger.Error().Err(err).Str("service_id", svc.ID).Msg("Failed to build service-created task")
		return
	}

	if _, err := s.jobs.Client.Enqueue(task); err != nil {
		s.logger.Error().Err(err).Str("service_id", svc.ID).Msg("Failed to enqueue service-created task")
	}
}
