// Package service contains business logic.
//
// Services sit between HTTP handlers and repositories: they enforce tenant
// scoping rules, translate storage errors into the application's HTTP
// error vocabulary, and trigger side effects like background
// notifications.
package service
