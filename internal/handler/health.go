package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves liveness/readiness checks.
type HealthHandler struct {
	*Handler
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(base *Handler) *HealthHandler {
	return &HealthHandler{
		Handler: base,
	}
}

// HealthResponse is the status endpoint payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Status reports whether the API and its dependencies are reachable.
//
// A failing database makes the whole check 503 so load balancers stop
// routing here. Redis only carries background notifications, so a Redis
// outage is reported but keeps the status 200.
func (h *HealthHandler) Status(c echo.Context) error {
	res := HealthResponse{
		Status:   "ok",
		Database: "ok",
		Redis:    "ok",
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.server.Redis.Ping(ctx).Err(); err != nil {
		res.Redis = "unreachable"
	}

	if err := h.server.DB.Pool.Ping(ctx); err != nil {
		res.Status = "degraded"
		res.Database = "unreachable"
		return c.JSON(http.StatusServiceUnavailable, res)
	}

	return c.JSON(http.StatusOK, res)
}
