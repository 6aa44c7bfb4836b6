// Package http implements the HTTP handlers of the fxclean service.
//
// Handlers stay thin: they decode and validate the request, call a service
// and render the result. Business logic lives in internal/services and
// internal/dataprocessing.
//
// # Endpoints
//
//	GET  /api/health        liveness status
//	GET  /api/version       build information
//	POST /api/v1/clean      clean a quotes CSV body (format=json|csv)
//	POST /api/v1/outliers   outlier reports for a quotes CSV body
//
// # Errors
//
// Failures are rendered as RFC 7807 problem documents by
// internal/errors.ErrorHandler. Schema and type coercion failures map to 422,
// malformed bodies and invalid queries to 400, oversized bodies to 413 and
// anything else to 500.
package http
