package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dgarridoh/studykit-api/internal/chunker"
	"github.com/dgarridoh/studykit-api/internal/domain"
	"github.com/dgarridoh/studykit-api/internal/extractor"
	"github.com/dgarridoh/studykit-api/internal/store"
)

// Common errors
var (
	ErrNilJobStore     = errors.New("job store cannot be nil")
	ErrNilExtractor    = errors.New("extractor cannot be nil")
	ErrNilChunker      = errors.New("chunker cannot be nil")
	ErrNilOrchestrator = errors.New("orchestrator cannot be nil")
	ErrEmptyJobID      = errors.New("job ID cannot be empty")
	ErrNoDocuments     = errors.New("job has no documents to process")
)

// Orchestrator runs the fan-out/fan-in generation stage and assembles the
// content bundle. Defined here so the task depends on behavior, not on the
// concrete generation orchestrator.
type Orchestrator interface {
	Run(ctx context.Context, chunks []string, filenames []string) (*domain.ContentBundle, *domain.Metadata)
}

// Chunker splits extracted text into bounded overlapping segments.
type Chunker interface {
	Split(text string) ([]string, error)
}

// JobProcessingTask implements the Task interface for running the document
// processing pipeline of one job: extract, chunk, generate, persist.
//
// The task owns the job record for the duration of the run: it is the only
// writer, and each stage failure before generation transitions the job to
// failed with a diagnostic. Generation itself cannot fail the job — the
// orchestrator absorbs per-pass failures into placeholder content.
type JobProcessingTask struct {
	id           uuid.UUID
	jobID        uuid.UUID
	docs         []extractor.Document
	jobStore     store.JobStore
	extractor    extractor.Extractor
	chunker      Chunker
	orchestrator Orchestrator
	logger       *slog.Logger
}

// NewJobProcessingTask creates a pipeline task for the given job and its
// uploaded documents. The document contents live only as long as the task.
func NewJobProcessingTask(
	jobID uuid.UUID,
	docs []extractor.Document,
	jobStore store.JobStore,
	ex extractor.Extractor,
	ch Chunker,
	orchestrator Orchestrator,
	logger *slog.Logger,
) (*JobProcessingTask, error) {
	if jobStore == nil {
		return nil, ErrNilJobStore
	}
	if ex == nil {
		return nil, ErrNilExtractor
	}
	if ch == nil {
		return nil, ErrNilChunker
	}
	if orchestrator == nil {
		return nil, ErrNilOrchestrator
	}
	if jobID == uuid.Nil {
		return nil, ErrEmptyJobID
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &JobProcessingTask{
		id:           uuid.New(),
		jobID:        jobID,
		docs:         docs,
		jobStore:     jobStore,
		extractor:    ex,
		chunker:      ch,
		orchestrator: orchestrator,
		logger:       logger.With("task_type", TaskTypeJobProcessing, "job_id", jobID),
	}, nil
}

// ID returns the task's unique identifier
func (t *JobProcessingTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *JobProcessingTask) Type() string {
	return TaskTypeJobProcessing
}

// Execute runs the processing pipeline for the job. Stage order is fixed:
// extraction completes fully before chunking, chunking before generation,
// and all generation passes join before the terminal state is written.
// Every terminal transition is a single store write.
func (t *JobProcessingTask) Execute(ctx context.Context) (err error) {
	t.logger.Info("starting job processing task", "file_count", len(t.docs))

	// Convert an uncaught panic anywhere in the pipeline into a failed
	// job rather than leaving the record stuck in processing.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("processing panicked: %v", rec)
			t.failJob(ctx, err.Error())
		}
	}()

	if ctxErr := ctx.Err(); ctxErr != nil {
		t.failJob(ctx, fmt.Sprintf("processing cancelled: %v", ctxErr))
		return fmt.Errorf("task cancelled by context: %w", ctxErr)
	}

	// 1. Extract text from all documents. A single unreadable document
	// aborts the batch; the diagnostic names the failing file.
	fullText, err := extractor.ExtractAll(ctx, t.extractor, t.docs)
	if err != nil {
		t.logger.Error("text extraction failed", "error", err)
		t.failJob(ctx, fmt.Sprintf("Processing failed: %v", err))
		return fmt.Errorf("text extraction failed: %w", err)
	}

	// Document contents are no longer needed once text is extracted.
	filenames := make([]string, len(t.docs))
	for i, doc := range t.docs {
		filenames[i] = doc.Filename
	}
	t.docs = nil

	// 2. Chunk the text. Empty input means nothing was extractable and
	// generation never starts.
	chunks, err := t.chunker.Split(fullText)
	if err != nil {
		if errors.Is(err, chunker.ErrEmptyInput) {
			t.logger.Warn("no extractable text in any document")
			t.failJob(ctx, "Processing failed: no text could be extracted from the uploaded documents")
			return fmt.Errorf("no extractable text: %w", err)
		}
		t.logger.Error("chunking failed", "error", err)
		t.failJob(ctx, fmt.Sprintf("Processing failed: %v", err))
		return fmt.Errorf("chunking failed: %w", err)
	}

	t.logger.Info("text chunked", "chunk_count", len(chunks))

	// 3. Generate content. Run never fails; degraded passes surface as
	// placeholder items and a metadata flag.
	bundle, metadata := t.orchestrator.Run(ctx, chunks, filenames)

	// 4. Write the terminal state.
	if err := t.jobStore.MarkFinished(ctx, t.jobID, bundle, metadata); err != nil {
		t.logger.Error("failed to persist finished job", "error", err)
		return fmt.Errorf("failed to persist finished job: %w", err)
	}

	t.logger.Info("job processing task completed",
		"chunk_count", len(chunks),
		"degraded", metadata.Degraded)
	return nil
}

// failJob writes the terminal failed state, logging rather than
// propagating a store failure: the pipeline error is already on its way
// out and matters more than the bookkeeping write.
func (t *JobProcessingTask) failJob(ctx context.Context, detail string) {
	if err := t.jobStore.MarkFailed(ctx, t.jobID, detail); err != nil {
		t.logger.Error("failed to persist failed job state",
			"error", err,
			"detail", detail)
	}
}
