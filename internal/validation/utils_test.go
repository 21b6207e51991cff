package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/agencyhub/internal/errs"
)

var testValidate = validator.New()

type createPayload struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=10"`
}

func (p *createPayload) Validate() error {
	return testValidate.Struct(p)
}

func newTestContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestBindAndValidateSuccess(t *testing.T) {
	c := newTestContext(`{"name":"Bookkeeping"}`)

	payload := &createPayload{}
	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, "Bookkeeping", payload.Name)
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	c := newTestContext(`{"name":`)

	err := BindAndValidate(c, &createPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Malformed request body", httpErr.Message)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	c := newTestContext(`{"description":"way too long here"}`)

	err := BindAndValidate(c, &createPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 2)

	byField := map[string]string{}
	for _, fe := range httpErr.Errors {
		byField[fe.Field] = fe.Error
	}
	assert.Equal(t, "is required", byField["name"])
	assert.Equal(t, "must not exceed 10 characters", byField["description"])
}

func TestExtractValidationErrorCustomErrors(t *testing.T) {
	err := CustomValidationErrors{
		{Field: "name", Message: "already taken"},
	}

	msg, fieldErrors := extractValidationError(err)

	assert.Equal(t, "Validation failed", msg)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "name", fieldErrors[0].Field)
	assert.Equal(t, "already taken", fieldErrors[0].Error)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("3e0a59b3-6c9e-4f6a-8d2e-6b7c1a2d3e4f"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("3e0a59b3-6c9e-4f6a-8d2e-6b7c1a2d3e4f "))
}
