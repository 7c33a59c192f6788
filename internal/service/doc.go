// Package service implements application-level orchestration between the
// HTTP layer, the job store and the background task runner. Services own
// the create-then-enqueue sequence and translate store errors into
// service-level errors for the API layer.
package service
