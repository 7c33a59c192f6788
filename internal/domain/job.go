package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of a job.
type JobStatus string

// Possible job status values. A job starts in processing and ends in
// exactly one of finished or failed; terminal states never change.
const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusFinished   JobStatus = "finished"
	JobStatusFailed     JobStatus = "failed"
)

// FileInfo describes one uploaded document in a job's input manifest.
// The manifest is set at creation and never mutated afterwards.
type FileInfo struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Job represents one tracked batch-processing request: a set of uploaded
// documents progressing through extraction, chunking and content generation.
// Exactly one of Result and ErrorDetail is populated once the job leaves
// the processing state; both are empty while processing.
type Job struct {
	ID          uuid.UUID      `json:"id"`
	Status      JobStatus      `json:"status"`
	Files       []FileInfo     `json:"files"`
	Result      *ContentBundle `json:"result,omitempty"`
	Metadata    *Metadata      `json:"metadata,omitempty"`
	ErrorDetail string         `json:"error_detail,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewJob creates a new Job for the given input manifest.
// It generates a new UUID, sets the status to processing and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewJob(files []FileInfo) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.New(),
		Status:    JobStatusProcessing,
		Files:     files,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the Job has valid data.
// Returns an error if any field fails validation.
func (j *Job) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}

	if len(j.Files) == 0 {
		return ErrEmptyManifest
	}

	for _, f := range j.Files {
		if f.Filename == "" {
			return ErrEmptyFilename
		}
	}

	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}

	if j.Status != JobStatusFinished && j.Result != nil {
		return ErrResultOnNonFinished
	}

	if j.Status != JobStatusFailed && j.ErrorDetail != "" {
		return ErrErrorDetailOnNonFailed
	}

	return nil
}

// IsTerminal reports whether the job has reached a terminal state.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusFinished || j.Status == JobStatusFailed
}

// MarkFinished transitions the job to the finished state with the assembled
// content bundle and processing metadata, advancing UpdatedAt.
// Returns ErrTerminalState if the job has already reached a terminal state.
func (j *Job) MarkFinished(result *ContentBundle, metadata *Metadata) error {
	if j.IsTerminal() {
		return ErrTerminalState
	}

	if result == nil {
		return ErrNilResult
	}

	j.Status = JobStatusFinished
	j.Result = result
	j.Metadata = metadata
	j.ErrorDetail = ""
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed transitions the job to the failed state with a diagnostic
// detail string, advancing UpdatedAt.
// Returns ErrTerminalState if the job has already reached a terminal state.
func (j *Job) MarkFailed(detail string) error {
	if j.IsTerminal() {
		return ErrTerminalState
	}

	if detail == "" {
		detail = "unknown processing error"
	}

	j.Status = JobStatusFailed
	j.ErrorDetail = detail
	j.Result = nil
	j.Metadata = nil
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidJobStatus checks if the given status is a valid JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusProcessing, JobStatusFinished, JobStatusFailed:
		return true
	default:
		return false
	}
}
