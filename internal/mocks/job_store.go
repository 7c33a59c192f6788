package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dgarridoh/studykit-api/internal/domain"
	"github.com/dgarridoh/studykit-api/internal/store"
)

// MemoryJobStore is a thread-safe in-memory implementation of
// store.JobStore for testing. It honors the same terminal-state and
// not-found semantics as the Postgres implementation so task and service
// tests exercise realistic store behavior.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*domain.Job

	// PingErr, when set, is returned by Ping to simulate an unreachable store.
	PingErr error

	// CreateErr, when set, is returned by Create to simulate write failures.
	CreateErr error
}

// Compile-time check
var _ store.JobStore = (*MemoryJobStore)(nil)

// NewMemoryJobStore creates an empty MemoryJobStore.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{
		jobs: make(map[uuid.UUID]*domain.Job),
	}
}

// Create implements store.JobStore.
func (s *MemoryJobStore) Create(ctx context.Context, job *domain.Job) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if err := job.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return store.ErrDuplicate
	}

	s.jobs[job.ID] = cloneJob(job)
	return nil
}

// GetByID implements store.JobStore.
func (s *MemoryJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return cloneJob(job), nil
}

// MarkFinished implements store.JobStore.
func (s *MemoryJobStore) MarkFinished(
	ctx context.Context,
	id uuid.UUID,
	result *domain.ContentBundle,
	metadata *domain.Metadata,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return store.ErrJobNotFound
	}
	return job.MarkFinished(result, metadata)
}

// MarkFailed implements store.JobStore.
func (s *MemoryJobStore) MarkFailed(ctx context.Context, id uuid.UUID, errorDetail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return store.ErrJobNotFound
	}
	return job.MarkFailed(errorDetail)
}

// List implements store.JobStore.
func (s *MemoryJobStore) List(
	ctx context.Context,
	status domain.JobStatus,
	limit int,
) ([]*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Job
	for _, job := range s.jobs {
		if status != "" && job.Status != status {
			continue
		}
		result = append(result, cloneJob(job))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Delete implements store.JobStore.
func (s *MemoryJobStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return store.ErrJobNotFound
	}
	delete(s.jobs, id)
	return nil
}

// Ping implements store.JobStore.
func (s *MemoryJobStore) Ping(ctx context.Context) error {
	return s.PingErr
}

// Len returns the number of stored jobs.
func (s *MemoryJobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// cloneJob copies a job so callers cannot mutate stored state.
func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	c.Files = append([]domain.FileInfo(nil), j.Files...)
	if j.Result != nil {
		r := *j.Result
		r.OutlinePoints = append([]domain.OutlinePoint(nil), j.Result.OutlinePoints...)
		r.QuizItems = append([]domain.QuizItem(nil), j.Result.QuizItems...)
		r.Flashcards = append([]domain.Flashcard(nil), j.Result.Flashcards...)
		c.Result = &r
	}
	if j.Metadata != nil {
		m := *j.Metadata
		m.FilesProcessed = append([]string(nil), j.Metadata.FilesProcessed...)
		c.Metadata = &m
	}
	return &c
}
