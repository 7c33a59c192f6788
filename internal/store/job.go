package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/dgarridoh/studykit-api/internal/domain"
)

// JobStore defines the interface for job data persistence.
// Each job record is owned exclusively by the pipeline task processing it
// for the duration of the run; every state transition is a single write so
// concurrent readers never observe a partial update.
type JobStore interface {
	// Create saves a new job to the store with its initial processing
	// status and input manifest.
	// Returns validation errors from the domain Job if data is invalid.
	Create(ctx context.Context, job *domain.Job) error

	// GetByID retrieves a job by its unique ID.
	// Returns ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)

	// MarkFinished transitions a job to the finished state with its
	// content bundle and metadata in one atomic write.
	// Returns ErrJobNotFound if the job does not exist.
	MarkFinished(ctx context.Context, id uuid.UUID, result *domain.ContentBundle, metadata *domain.Metadata) error

	// MarkFailed transitions a job to the failed state with a diagnostic
	// detail string in one atomic write.
	// Returns ErrJobNotFound if the job does not exist.
	MarkFailed(ctx context.Context, id uuid.UUID, errorDetail string) error

	// List retrieves up to limit jobs ordered by creation time descending,
	// optionally filtered by status (empty status means no filter).
	List(ctx context.Context, status domain.JobStatus, limit int) ([]*domain.Job, error)

	// Delete removes a job record.
	// Returns ErrJobNotFound if the job does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Ping verifies connectivity to the underlying store.
	Ping(ctx context.Context) error
}
