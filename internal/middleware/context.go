package middleware

import (
	"context"

	"github.com/deppfellow/agencyhub/internal/logger"
	"github.com/deppfellow/agencyhub/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	// UserIDKey and UserRoleKey are the canonical Echo context keys under
	// which the auth middleware stores the caller's id and role.
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"

	// LoggerKey is used as the key for storing the request-scoped logger.
	LoggerKey = "logger"
)

// ContextEnhancer enriches each request with a request-scoped logger.
//
// The logger carries request_id, method, path, ip, and trace ids (when a
// New Relic transaction exists). It is stored both in Echo context and in
// the Go request context so non-Echo code can retrieve it. Identity
// fields are added later by the auth middleware via
// AttachIdentityLogFields, because authentication runs after this
// middleware in the chain.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a new ContextEnhancer using the app Server
// container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns an Echo middleware that builds and stores the
// request-scoped logger.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := GetRequestID(c)

			contextLogger := ce.server.Logger.With().
				Str("request_id", requestID).
				Str("method", c.Request().Method).
				Str("path", c.Path()). // route template, not raw URL
				Str("ip", c.RealIP()).
				Logger()

			// Attach trace.id/span.id if a New Relic transaction exists.
			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			c.Set(LoggerKey, &contextLogger)

			// Also store the logger in the Go request context so layers
			// that only see context.Context (repositories, jobs) can log
			// with request correlation.
			ctx := context.WithValue(c.Request().Context(), LoggerKey, &contextLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// AttachIdentityLogFields replaces the request-scoped logger with a child
// carrying the caller's id and role. The auth middleware calls this once
// the identity is resolved; every log line from that point on, including
// the global error handler's, is attributed to the caller.
func AttachIdentityLogFields(c echo.Context, identity *Identity) {
	contextLogger := GetLogger(c).With().
		Str("user_id", identity.UserID).
		Str("user_role", string(identity.Role)).
		Logger()

	c.Set(LoggerKey, &contextLogger)

	ctx := context.WithValue(c.Request().Context(), LoggerKey, &contextLogger)
	c.SetRequest(c.Request().WithContext(ctx))
}

// extractString reads a string value from Echo context, returning "" when
// absent or of another type.
func extractString(c echo.Context, key string) string {
	if value, ok := c.Get(key).(string); ok {
		return value
	}
	return ""
}

// GetUserID reads the caller's user id from Echo context.
func GetUserID(c echo.Context) string {
	return extractString(c, UserIDKey)
}

// GetLogger retrieves the request-scoped logger from Echo context.
//
// If EnhanceContext middleware didn't run, it returns a no-op logger so
// callers never need a nil check.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}
