package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/agencyhub/internal/middleware"
	"github.com/deppfellow/agencyhub/internal/server"
	"github.com/deppfellow/agencyhub/internal/validation"
)

// Handler is the shared base embedded by every concrete handler. It holds
// app-wide dependencies handlers may need.
type Handler struct {
	server *server.Server
}

// NewHandler constructs the base handler.
func NewHandler(s *server.Server) *Handler {
	return &Handler{
		server: s,
	}
}

// Handle wraps a typed endpoint function into an echo.HandlerFunc.
//
// Req is the request payload type; PReq is *Req and must implement
// validation.Validatable. A fresh *Req is allocated per request, bound
// from body/path/query, and validated before fn runs. On success the
// result is serialized as JSON with the given status.
func Handle[Req any, PReq validation.ValidatablePtr[Req], Res any](
	h *Handler,
	fn func(c echo.Context, req PReq) (Res, error),
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))

		if err := validation.BindAndValidate(c, req); err != nil {
			return err
		}

		res, err := handleRequest(c, req, fn)
		if err != nil {
			return err
		}

		return c.JSON(status, res)
	}
}

// HandleNoContent is Handle for endpoints whose success response has no
// body, e.g. DELETE returning 204.
func HandleNoContent[Req any, PReq validation.ValidatablePtr[Req]](
	h *Handler,
	fn func(c echo.Context, req PReq) error,
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))

		if err := validation.BindAndValidate(c, req); err != nil {
			return err
		}

		_, err := handleRequest(c, req, func(c echo.Context, req PReq) (struct{}, error) {
			return struct{}{}, fn(c, req)
		})
		if err != nil {
			return err
		}

		return c.NoContent(status)
	}
}

// handleRequest runs the endpoint function with timing and tracing around
// it. Errors pass through untouched; the global error handler owns the
// response shape.
func handleRequest[Req any, Res any](
	c echo.Context,
	req Req,
	fn func(c echo.Context, req Req) (Res, error),
) (Res, error) {
	logger := middleware.GetLogger(c)

	segment := startSegment(c, "handler.execute")

	start := time.Now()
	res, err := fn(c, req)
	elapsed := time.Since(start)

	if segment != nil {
		segment.End()
	}

	if err == nil {
		logger.Debug().
			Dur("handler_ms", elapsed).
			Str("handler", c.Path()).
			Msg("Handler completed")
	}

	return res, err
}

// startSegment opens a New Relic segment on the current transaction, or
// returns nil when tracing is off.
func startSegment(c echo.Context, name string) *newrelic.Segment {
	txn := newrelic.FromContext(c.Request().Context())
	if txn == nil {
		return nil
	}
	return txn.StartSegment(name)
}
