package repository

import (
	"context"
	"time"

	"github.com/deppfellow/agencyhub/internal/server"
)

// Service is an offering an agency provides to its clients.
//
// AssignedClients and Checklists are derived data: the count comes from
// client assignment rows and checklists are eager loaded per service. Both
// are always populated on reads so API responses never need follow-up
// queries.
type Service struct {
	ID              string      `json:"id"`
	AgencyID        string      `json:"agency_id"`
	Name            string      `json:"name"`
	Description     *string     `json:"description"`
	CreatedBy       string      `json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
	AssignedClients int64       `json:"assigned_clients"`
	Checklists      []Checklist `json:"checklists"`
}

// Checklist is a checklist item attached to a service.
type Checklist struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ServicesRepository owns all SQL touching the services, checklists and
// client_services tables.
type ServicesRepository struct {
	server *server.Server
}

// NewServicesRepository constructs a ServicesRepository.
func NewServicesRepository(s *server.Server) *ServicesRepository {
	return &ServicesRepository{
		server: s,
	}
}

// ExistsByAgencyAndName reports whether the agency already has a service
// with the given name.
//
// This is an advisory pre-check for a friendlier error; the unique
// constraint on (agency_id, name) remains the authority under concurrent
// inserts.
func (r *ServicesRepository) ExistsByAgencyAndName(ctx context.Context, agencyID, name string) (bool, error) {
	var exists bool
	err := r.server.DB.Pool.QueryRow(ctx, `
		select exists (
			select 1 from services
			where agency_id = $1 and name = $2
		)
	`, agencyID, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Insert creates a service row and returns the stored record.
func (r *ServicesRepository) Insert(ctx context.Context, agencyID, name string, description *string, createdBy string) (*Service, error) {
	svc := Service{
		Checklists: []Checklist{},
	}

	err := r.server.DB.Pool.QueryRow(ctx, `
		insert into services (agency_id, name, description, created_by)
		values ($1, $2, $3, $4)
		returning id::text, agency_id, name, description, created_by, created_at
	`, agencyID, name, description, createdBy).Scan(
		&svc.ID,
		&svc.AgencyID,
		&svc.Name,
		&svc.Description,
		&svc.CreatedBy,
		&svc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &svc, nil
}

// ListByAgency returns every service belonging to the agency, oldest
// first, with assignment counts and checklists populated.
func (r *ServicesRepository) ListByAgency(ctx context.Context, agencyID string) ([]Service, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `
		select
			s.id::text,
			s.agency_id,
			s.name,
			s.description,
			s.created_by,
			s.created_at,
			(
				select count(*)
				from client_services cs
				where cs.service_id = s.id
			) as assigned_clients
		from services s
		where s.agency_id = $1
		order by s.created_at, s.id
	`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []Service{}
	for rows.Next() {
		var svc Service
		if err := rows.Scan(
			&svc.ID,
			&svc.AgencyID,
			&svc.Name,
			&svc.Description,
			&svc.CreatedBy,
			&svc.CreatedAt,
			&svc.AssignedClients,
		); err != nil {
			return nil, err
		}
		svc.Checklists = []Checklist{}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachChecklists(ctx, services); err != nil {
		return nil, err
	}

	return services, nil
}

// GetByID returns a single service scoped to the agency.
//
// A service that exists under a different agency behaves exactly like a
// missing one: pgx.ErrNoRows either way.
func (r *ServicesRepository) GetByID(ctx context.Context, agencyID, serviceID string) (*Service, error) {
	svc := Service{}

	err := r.server.DB.Pool.QueryRow(ctx, `
		select
			s.id::text,
			s.agency_id,
			s.name,
			s.description,
			s.created_by,
			s.created_at,
			(
				select count(*)
				from client_services cs
				where cs.service_id = s.id
			) as assigned_clients
		from services s
		where s.id = $1::uuid and s.agency_id = $2
	`, serviceID, agencyID).Scan(
		&svc.ID,
		&svc.AgencyID,
		&svc.Name,
		&svc.Description,
		&svc.CreatedBy,
		&svc.CreatedAt,
		&svc.AssignedClients,
	)
	if err != nil {
		return nil, err
	}

	services := []Service{svc}
	if err := r.attachChecklists(ctx, services); err != nil {
		return nil, err
	}

	return &services[0], nil
}

// Delete removes a service scoped to the agency and reports whether a row
// was actually deleted. Checklist and assignment rows go with it via ON
// DELETE CASCADE.
func (r *ServicesRepository) Delete(ctx context.Context, agencyID, serviceID string) (bool, error) {
	tag, err := r.server.DB.Pool.Exec(ctx, `
		delete from services
		where id = $1::uuid and agency_id = $2
	`, serviceID, agencyID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// attachChecklists loads checklists for the given services in one query
// and distributes them in-place.
func (r *ServicesRepository) attachChecklists(ctx context.Context, services []Service) error {
	if len(services) == 0 {
		return nil
	}

	serviceIDs := make([]string, 0, len(services))
	index := make(map[string]*Service, len(services))
	for i := range services {
		serviceIDs = append(serviceIDs, services[i].ID)
		index[services[i].ID] = &services[i]
	}

	rows, err := r.server.DB.Pool.Query(ctx, `
		select id::text, service_id::text, name, created_at
		from checklists
		where service_id = any($1::uuid[])
		order by created_at, id
	`, serviceIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cl Checklist
		if err := rows.Scan(&cl.ID, &cl.ServiceID, &cl.Name, &cl.CreatedAt); err != nil {
			return err
		}
		if svc, ok := index[cl.ServiceID]; ok {
			svc.Checklists = append(svc.Checklists, cl)
		}
	}

	return rows.Err()
}
