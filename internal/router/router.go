// Package router wires handlers and middleware into the Echo instance.
//
// Route registration is split by area (system, services) so each file
// reads like a table of endpoints.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/agencyhub/internal/handler"
	"github.com/deppfellow/agencyhub/internal/middleware"
	"github.com/deppfellow/agencyhub/internal/server"
)

// New builds the Echo instance: global middleware chain, error handler,
// and all routes.
//
// Middleware order matters:
//  1. RequestID first so every later layer can correlate.
//  2. New Relic transaction start.
//  3. Context enhancement (request-scoped logger).
//  4. Request logging, recovery, secure headers, CORS.
//  5. Rate limiting.
//  6. Tracing attribute enrichment.
func New(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = m.Global.GlobalErrorHandler

	e.Use(middleware.RequestID())
	e.Use(m.Tracing.NewRelicMiddleware())
	e.Use(m.ContextEnhancer.EnhanceContext())
	e.Use(m.Global.RequestLogger())
	e.Use(m.Global.Recover())
	e.Use(m.Global.Secure())
	e.Use(m.Global.CORS())
	e.Use(m.RateLimit.Limit())
	e.Use(m.Tracing.EnhanceTracing())

	registerSystemRoutes(e, h)
	registerServiceRoutes(e, h, m)

	return e
}
