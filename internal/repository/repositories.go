package repository

import (
	"github.com/deppfellow/agencyhub/internal/server"
)

// Repositories groups all repository components.
type Repositories struct {
	Services *ServicesRepository
}

// NewRepositories constructs all repositories from the application
// container.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Services: NewServicesRepository(s),
	}
}
