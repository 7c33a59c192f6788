// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying storage mechanism from the job
// pipeline, allowing the lifecycle logic to remain independent of the
// specific database technology backing the job records.
package store
