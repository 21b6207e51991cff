package service

import (
	"github.com/deppfellow/agencyhub/internal/repository"
	"github.com/deppfellow/agencyhub/internal/server"
)

// Service groups all business logic components.
type Service struct {
	Auth     *AuthService
	Services *ServicesService
}

// NewService constructs all business logic components.
func NewService(s *server.Server, repos *repository.Repositories) *Service {
	return &Service{
		Auth:     NewAuthService(s),
		Services: NewServicesService(repos.Services, s.Logger, s.Job),
	}
}
