package handler

import (
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API reference UI.
type OpenAPIHandler struct {
	*Handler
}

// NewOpenAPIHandler constructs an OpenAPIHandler.
func NewOpenAPIHandler(base *Handler) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: base,
	}
}

// Docs serves the HTML API reference page. The page loads the OpenAPI
// document from /static/openapi.json.
func (h *OpenAPIHandler) Docs(c echo.Context) error {
	return c.File("static/openapi.html")
}
