// Package handler contains the HTTP layer.
//
// Handlers bind and validate request payloads, read the caller identity
// from middleware, call into the service layer, and shape responses. All
// of the repetitive plumbing lives in the generic Handle helpers so each
// endpoint is a small typed function.
package handler
