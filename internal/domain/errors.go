package domain

import "errors"

// Common validation and transition errors for Job.
var (
	ErrEmptyJobID       = errors.New("job ID cannot be empty")
	ErrEmptyManifest    = errors.New("job must have at least one input file")
	ErrEmptyFilename    = errors.New("input file must have a filename")
	ErrInvalidJobStatus = errors.New("invalid job status")

	// ErrTerminalState is returned when attempting to transition a job
	// that is already finished or failed.
	ErrTerminalState = errors.New("job is already in a terminal state")

	// ErrNilResult is returned when finishing a job without a content bundle.
	ErrNilResult = errors.New("finished job requires a content bundle")

	ErrResultOnNonFinished    = errors.New("result is only valid on a finished job")
	ErrErrorDetailOnNonFailed = errors.New("error detail is only valid on a failed job")
)
