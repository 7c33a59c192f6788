// Package api contains the HTTP handlers for the StudyKit API.
//
// Handlers translate HTTP requests into service calls and service results
// back into JSON responses. Error mapping is centralized in errors.go so
// clients always receive sanitized messages with appropriate status codes,
// while the detailed error is logged with the request trace ID.
package api
