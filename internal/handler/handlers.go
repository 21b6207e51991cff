package handler

import (
	"github.com/deppfellow/agencyhub/internal/server"
	"github.com/deppfellow/agencyhub/internal/service"
)

// Handlers groups all HTTP handler components.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Services *ServicesHandler
}

// NewHandlers constructs all handler components.
func NewHandlers(s *server.Server, svc *service.Service) *Handlers {
	base := NewHandler(s)

	return &Handlers{
		Health:   NewHealthHandler(base),
		OpenAPI:  NewOpenAPIHandler(base),
		Services: NewServicesHandler(base, svc.Services),
	}
}
