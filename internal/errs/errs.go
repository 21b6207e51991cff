// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (e.g. FieldErrors for forms or HTTPError for API responses)
// to ensure the client receives meaningful, actionable, and
// consistent error messages.
//
// - Return consistent error shapes to API clients (JSON).
// - Support field-level validation errors for forms.
// - Support "action hints" (like redirect) that frontends can interpret.
// - Provide errors that play nicely with Go's standard errors package.
package errs
