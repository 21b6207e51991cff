// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as authentication (via Clerk), role-based access control,
// request logging, CORS, rate limiting, and panic recovery.
package middleware
