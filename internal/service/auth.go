package service

import (
	"github.com/clerk/clerk-sdk-go/v2"

	"github.com/deppfellow/agencyhub/internal/server"
)

// AuthService wires the Clerk SDK into the application.
//
// Clerk keeps its key in package state, so this service mostly exists to
// make the initialization explicit and testable at construction time.
type AuthService struct {
	server *server.Server
}

// NewAuthService constructs the AuthService and registers the Clerk
// secret key with the SDK.
func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)

	return &AuthService{
		server: s,
	}
}
