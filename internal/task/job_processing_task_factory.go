package task

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/dgarridoh/studykit-api/internal/extractor"
	"github.com/dgarridoh/studykit-api/internal/store"
)

// JobProcessingTaskFactory creates JobProcessingTask instances with their
// pipeline dependencies already bound.
type JobProcessingTaskFactory struct {
	jobStore     store.JobStore
	extractor    extractor.Extractor
	chunker      Chunker
	orchestrator Orchestrator
	logger       *slog.Logger
}

// NewJobProcessingTaskFactory creates a new factory for JobProcessingTasks
func NewJobProcessingTaskFactory(
	jobStore store.JobStore,
	ex extractor.Extractor,
	ch Chunker,
	orchestrator Orchestrator,
	logger *slog.Logger,
) *JobProcessingTaskFactory {
	return &JobProcessingTaskFactory{
		jobStore:     jobStore,
		extractor:    ex,
		chunker:      ch,
		orchestrator: orchestrator,
		logger:       logger.With("component", "job_processing_task_factory"),
	}
}

// CreateTask creates a new JobProcessingTask for the specified job
func (f *JobProcessingTaskFactory) CreateTask(
	jobID uuid.UUID,
	docs []extractor.Document,
) (Task, error) {
	t, err := NewJobProcessingTask(
		jobID,
		docs,
		f.jobStore,
		f.extractor,
		f.chunker,
		f.orchestrator,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
