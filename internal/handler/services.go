package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/agencyhub/internal/errs"
	"github.com/deppfellow/agencyhub/internal/middleware"
	"github.com/deppfellow/agencyhub/internal/repository"
	"github.com/deppfellow/agencyhub/internal/service"
)

var validate = validator.New()

// ServicesHandler exposes the agency service catalog endpoints.
type ServicesHandler struct {
	*Handler
	services *service.ServicesService
}

// NewServicesHandler constructs a ServicesHandler.
func NewServicesHandler(base *Handler, services *service.ServicesService) *ServicesHandler {
	return &ServicesHandler{
		Handler:  base,
		services: services,
	}
}

// CreateServiceRequest is the payload for creating a catalog service.
type CreateServiceRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (r *CreateServiceRequest) Validate() error {
	return validate.Struct(r)
}

// ListServicesRequest carries no inputs; the agency scope comes from the
// caller identity.
type ListServicesRequest struct{}

func (r *ListServicesRequest) Validate() error {
	return nil
}

// ServiceIDRequest identifies a single service via the path.
type ServiceIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *ServiceIDRequest) Validate() error {
	return validate.Struct(r)
}

// Create adds a service to the caller's agency catalog.
func (h *ServicesHandler) Create(c echo.Context, req *CreateServiceRequest) (*repository.Service, error) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return nil, errs.NewUnauthorizedError("Authentication required", false)
	}

	return h.services.Create(c.Request().Context(), identity.AgencyID, identity.UserID, req.Name, req.Description)
}

// List returns the caller's agency catalog.
func (h *ServicesHandler) List(c echo.Context, _ *ListServicesRequest) ([]repository.Service, error) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return nil, errs.NewUnauthorizedError("Authentication required", false)
	}

	return h.services.List(c.Request().Context(), identity.AgencyID)
}

// Get returns a single service from the caller's agency catalog.
func (h *ServicesHandler) Get(c echo.Context, req *ServiceIDRequest) (*repository.Service, error) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return nil, errs.NewUnauthorizedError("Authentication required", false)
	}

	return h.services.Get(c.Request().Context(), identity.AgencyID, req.ID)
}

// Delete removes a service from the caller's agency catalog.
func (h *ServicesHandler) Delete(c echo.Context, req *ServiceIDRequest) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return errs.NewUnauthorizedError("Authentication required", false)
	}

	return h.services.Delete(c.Request().Context(), identity.AgencyID, req.ID)
}
