package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dgarridoh/studykit-api/internal/domain"
	"github.com/dgarridoh/studykit-api/internal/extractor"
	"github.com/dgarridoh/studykit-api/internal/store"
	"github.com/dgarridoh/studykit-api/internal/task"
)

// TaskRunner defines the interface for submitting background tasks
type TaskRunner interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, t task.Task) error
}

// TaskFactory creates the pipeline task for a newly submitted job.
type TaskFactory interface {
	// CreateTask creates a new processing task for the specified job
	// and its uploaded documents.
	CreateTask(jobID uuid.UUID, docs []extractor.Document) (task.Task, error)
}

// Upload is one submitted document: manifest entry plus raw content.
// Content is handed to the pipeline task and not retained by the service.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// JobService provides job-related operations
type JobService interface {
	// CreateJobAndEnqueueTask persists a new processing job and submits
	// its pipeline task. It returns as soon as the job record exists;
	// the pipeline runs detached and progress is observed by polling.
	CreateJobAndEnqueueTask(ctx context.Context, uploads []Upload) (*domain.Job, error)

	// GetJob retrieves a job by its ID
	GetJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error)

	// ListJobs retrieves recent jobs, optionally filtered by status.
	ListJobs(ctx context.Context, status domain.JobStatus, limit int) ([]*domain.Job, error)

	// DeleteJob removes a job record
	DeleteJob(ctx context.Context, jobID uuid.UUID) error

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}

// Common sentinel errors for JobService
var (
	// ErrJobNotFound indicates that the job does not exist
	ErrJobNotFound = errors.New("job not found")

	// ErrNoUploads indicates that a job was submitted without documents
	ErrNoUploads = errors.New("no documents submitted")

	// ErrStoreUnavailable indicates the job store cannot be reached
	ErrStoreUnavailable = errors.New("job store unavailable")
)

// JobServiceError wraps errors from the job service with context.
type JobServiceError struct {
	// Operation is the operation that failed (e.g., "create_job")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for JobServiceError.
func (e *JobServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("job service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("job service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *JobServiceError) Unwrap() error {
	return e.Err
}

// jobServiceImpl is the standard implementation of JobService.
type jobServiceImpl struct {
	jobStore    store.JobStore
	taskRunner  TaskRunner
	taskFactory TaskFactory
	logger      *slog.Logger
}

// NewJobService creates a new JobService.
func NewJobService(
	jobStore store.JobStore,
	taskRunner TaskRunner,
	taskFactory TaskFactory,
	logger *slog.Logger,
) (JobService, error) {
	if jobStore == nil {
		return nil, errors.New("job store cannot be nil")
	}
	if taskRunner == nil {
		return nil, errors.New("task runner cannot be nil")
	}
	if taskFactory == nil {
		return nil, errors.New("task factory cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &jobServiceImpl{
		jobStore:    jobStore,
		taskRunner:  taskRunner,
		taskFactory: taskFactory,
		logger:      logger.With(slog.String("component", "job_service")),
	}, nil
}

// CreateJobAndEnqueueTask implements JobService.CreateJobAndEnqueueTask
func (s *jobServiceImpl) CreateJobAndEnqueueTask(
	ctx context.Context,
	uploads []Upload,
) (*domain.Job, error) {
	if len(uploads) == 0 {
		return nil, ErrNoUploads
	}

	files := make([]domain.FileInfo, len(uploads))
	docs := make([]extractor.Document, len(uploads))
	for i, u := range uploads {
		files[i] = domain.FileInfo{
			Filename:    u.Filename,
			Size:        int64(len(u.Data)),
			ContentType: u.ContentType,
		}
		docs[i] = extractor.Document{
			Filename: u.Filename,
			Data:     u.Data,
		}
	}

	job, err := domain.NewJob(files)
	if err != nil {
		return nil, &JobServiceError{
			Operation: "create_job",
			Message:   "invalid job data",
			Err:       err,
		}
	}

	// Persist the processing record first: the caller must be able to
	// poll the id we return even if the pipeline hasn't started yet.
	if err := s.jobStore.Create(ctx, job); err != nil {
		return nil, s.wrapStoreError("create_job", "failed to persist job", err)
	}

	pipelineTask, err := s.taskFactory.CreateTask(job.ID, docs)
	if err != nil {
		return nil, &JobServiceError{
			Operation: "create_job",
			Message:   "failed to create pipeline task",
			Err:       err,
		}
	}

	if err := s.taskRunner.Submit(ctx, pipelineTask); err != nil {
		// The record exists but will never be processed; fail it so the
		// caller doesn't poll a job stuck in processing forever.
		if markErr := s.jobStore.MarkFailed(ctx, job.ID, "processing could not be scheduled"); markErr != nil {
			s.logger.Error("failed to mark unscheduled job as failed",
				"job_id", job.ID, "error", markErr)
		}
		return nil, &JobServiceError{
			Operation: "create_job",
			Message:   "failed to enqueue pipeline task",
			Err:       err,
		}
	}

	s.logger.Info("job created and enqueued",
		"job_id", job.ID,
		"file_count", len(files))

	return job, nil
}

// GetJob implements JobService.GetJob
func (s *jobServiceImpl) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	job, err := s.jobStore.GetByID(ctx, jobID)
	if err != nil {
		return nil, s.wrapStoreError("get_job", "failed to retrieve job", err)
	}
	return job, nil
}

// ListJobs implements JobService.ListJobs
func (s *jobServiceImpl) ListJobs(
	ctx context.Context,
	status domain.JobStatus,
	limit int,
) ([]*domain.Job, error) {
	jobs, err := s.jobStore.List(ctx, status, limit)
	if err != nil {
		return nil, s.wrapStoreError("list_jobs", "failed to list jobs", err)
	}
	return jobs, nil
}

// DeleteJob implements JobService.DeleteJob
func (s *jobServiceImpl) DeleteJob(ctx context.Context, jobID uuid.UUID) error {
	if err := s.jobStore.Delete(ctx, jobID); err != nil {
		return s.wrapStoreError("delete_job", "failed to delete job", err)
	}
	return nil
}

// Ping implements JobService.Ping
func (s *jobServiceImpl) Ping(ctx context.Context) error {
	if err := s.jobStore.Ping(ctx); err != nil {
		return ErrStoreUnavailable
	}
	return nil
}

// wrapStoreError maps store sentinel errors to service sentinels and wraps
// everything else with operation context.
func (s *jobServiceImpl) wrapStoreError(operation, message string, err error) error {
	switch {
	case store.IsNotFoundError(err):
		return ErrJobNotFound
	case errors.Is(err, store.ErrUnavailable):
		return ErrStoreUnavailable
	default:
		return &JobServiceError{Operation: operation, Message: message, Err: err}
	}
}
