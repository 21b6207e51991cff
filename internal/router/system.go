package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/agencyhub/internal/handler"
)

// registerSystemRoutes registers unauthenticated operational endpoints:
// health, API docs, and static assets.
func registerSystemRoutes(e *echo.Echo, h *handler.Handlers) {
	e.GET("/status", h.Health.Status)
	e.GET("/docs", h.OpenAPI.Docs)
	e.Static("/static", "static")
}
