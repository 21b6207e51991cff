package errs

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetStatusAndCode(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, NewUnauthorizedError("nope", false).Status)
	assert.Equal(t, "UNAUTHORIZED", NewUnauthorizedError("nope", false).Code)

	assert.Equal(t, http.StatusForbidden, NewForbiddenError("nope", false).Status)
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("gone", false, nil).Status)
	assert.Equal(t, http.StatusConflict, NewConflictError("dup", false, nil).Status)
	assert.Equal(t, "CONFLICT", NewConflictError("dup", false, nil).Code)
	assert.Equal(t, http.StatusInternalServerError, NewInternalServerError().Status)
}

func TestCustomCodeOverride(t *testing.T) {
	code := "SERVICE_ALREADY_EXISTS"
	err := NewConflictError("dup", true, &code)

	assert.Equal(t, "SERVICE_ALREADY_EXISTS", err.Code)
	assert.True(t, err.Override)
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	inner := NewNotFoundError("gone", false, nil)
	wrapped := errors.Wrap(inner, "fetching service")

	var httpErr *HTTPError
	assert.ErrorAs(t, wrapped, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestWithMessageCopies(t *testing.T) {
	original := NewNotFoundError("gone", true, nil)
	replaced := original.WithMessage("vanished")

	assert.Equal(t, "gone", original.Message)
	assert.Equal(t, "vanished", replaced.Message)
	assert.Equal(t, original.Status, replaced.Status)
	assert.Equal(t, original.Override, replaced.Override)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("Not Found"))
	assert.Equal(t, "OK", MakeUpperCaseWithUnderscores("OK"))
}
