package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/agencyhub/internal/handler"
	"github.com/deppfellow/agencyhub/internal/middleware"
)

// registerServiceRoutes registers the service catalog endpoints.
//
// All routes require authentication; per-route role allow-lists gate
// writes more tightly than reads. Client-side roles can browse the
// catalog but never mutate it.
func registerServiceRoutes(e *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	g := e.Group("/services", m.Auth.RequireAuth)

	g.POST("",
		handler.Handle(h.Services.Handler, h.Services.Create, http.StatusCreated),
		m.Auth.RequireRole(
			middleware.RoleSuperAdmin,
			middleware.RoleAgencyAdmin,
			middleware.RoleCAAccountant,
		),
	)

	g.GET("",
		handler.Handle(h.Services.Handler, h.Services.List, http.StatusOK),
		m.Auth.RequireRole(
			middleware.RoleSuperAdmin,
			middleware.RoleAgencyAdmin,
			middleware.RoleCAAccountant,
			middleware.RoleCATeam,
			middleware.RoleClientAdmin,
			middleware.RoleClientUser,
		),
	)

	g.GET("/:id",
		handler.Handle(h.Services.Handler, h.Services.Get, http.StatusOK),
		m.Auth.RequireRole(
			middleware.RoleSuperAdmin,
			middleware.RoleAgencyAdmin,
			middleware.RoleCAAccountant,
			middleware.RoleClientAdmin,
			middleware.RoleClientUser,
		),
	)

	g.DELETE("/:id",
		handler.HandleNoContent(h.Services.Handler, h.Services.Delete, http.StatusNoContent),
		m.Auth.RequireRole(
			middleware.RoleSuperAdmin,
			middleware.RoleAgencyAdmin,
			middleware.RoleCAAccountant,
		),
	)
}
