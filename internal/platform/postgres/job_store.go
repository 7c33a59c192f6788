package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dgarridoh/studykit-api/internal/domain"
	"github.com/dgarridoh/studykit-api/internal/platform/logger"
	"github.com/dgarridoh/studykit-api/internal/store"
)

// PostgresJobStore implements the store.JobStore interface
// using a PostgreSQL database as the storage backend. The input manifest,
// content bundle and metadata are stored as JSONB so one row holds the
// complete job record and every state transition is a single statement.
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a new PostgreSQL implementation of the
// JobStore interface. It accepts a database connection that should be
// initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

// Ensure PostgresJobStore implements store.JobStore interface
var _ store.JobStore = (*PostgresJobStore)(nil)

// Create implements store.JobStore.Create
// It saves a new job to the database, handling domain validation.
// Returns validation errors from the domain Job if data is invalid.
func (s *PostgresJobStore) Create(ctx context.Context, job *domain.Job) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := job.Validate(); err != nil {
		log.Warn("job validation failed during create",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	filesJSON, err := json.Marshal(job.Files)
	if err != nil {
		return fmt.Errorf("failed to marshal input manifest: %w", err)
	}

	query := `
		INSERT INTO jobs (id, status, files, error_detail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Status,
		filesJSON,
		job.ErrorDetail,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return MapError(err)
	}

	log.Info("job created",
		slog.String("job_id", job.ID.String()),
		slog.Int("file_count", len(job.Files)))
	return nil
}

// GetByID implements store.JobStore.GetByID
// It retrieves a job by its unique ID.
// Returns store.ErrJobNotFound if the job does not exist.
func (s *PostgresJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, status, files, result, metadata, error_detail, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`
	return s.scanJob(ctx, log, s.db.QueryRowContext(ctx, query, id))
}

// MarkFinished implements store.JobStore.MarkFinished
// It writes the terminal finished state, result bundle and metadata in a
// single UPDATE. Returns store.ErrJobNotFound if the job does not exist.
func (s *PostgresJobStore) MarkFinished(
	ctx context.Context,
	id uuid.UUID,
	result *domain.ContentBundle,
	metadata *domain.Metadata,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal content bundle: %w", err)
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		UPDATE jobs
		SET status = $1, result = $2, metadata = $3, error_detail = '', updated_at = $4
		WHERE id = $5
	`
	res, err := s.db.ExecContext(
		ctx,
		query,
		domain.JobStatusFinished,
		resultJSON,
		metadataJSON,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		log.Error("failed to mark job finished",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()))
		return MapError(err)
	}

	if err := requireRowAffected(res); err != nil {
		return err
	}

	log.Info("job finished", slog.String("job_id", id.String()))
	return nil
}

// MarkFailed implements store.JobStore.MarkFailed
// It writes the terminal failed state and diagnostic detail in a single
// UPDATE. Returns store.ErrJobNotFound if the job does not exist.
func (s *PostgresJobStore) MarkFailed(ctx context.Context, id uuid.UUID, errorDetail string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE jobs
		SET status = $1, result = NULL, metadata = NULL, error_detail = $2, updated_at = $3
		WHERE id = $4
	`
	res, err := s.db.ExecContext(
		ctx,
		query,
		domain.JobStatusFailed,
		errorDetail,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		log.Error("failed to mark job failed",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()))
		return MapError(err)
	}

	if err := requireRowAffected(res); err != nil {
		return err
	}

	log.Info("job failed", slog.String("job_id", id.String()))
	return nil
}

// List implements store.JobStore.List
// It retrieves up to limit jobs ordered by creation time descending,
// optionally filtered by status.
func (s *PostgresJobStore) List(
	ctx context.Context,
	status domain.JobStatus,
	limit int,
) ([]*domain.Job, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, status, files, result, metadata, error_detail, created_at, updated_at
		FROM jobs
	`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2`
		args = append(args, status, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list jobs", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := s.scanJob(ctx, log, rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return jobs, nil
}

// Delete implements store.JobStore.Delete
// Returns store.ErrJobNotFound if the job does not exist.
func (s *PostgresJobStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete job",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()))
		return MapError(err)
	}

	if err := requireRowAffected(res); err != nil {
		return err
	}

	log.Info("job deleted", slog.String("job_id", id.String()))
	return nil
}

// Ping implements store.JobStore.Ping
func (s *PostgresJobStore) Ping(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `SELECT 1`); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanJob reads one job row, decoding the JSONB columns back into domain
// types. Result and metadata are nullable and only present on finished jobs.
func (s *PostgresJobStore) scanJob(
	_ context.Context,
	log *slog.Logger,
	row rowScanner,
) (*domain.Job, error) {
	var (
		job          domain.Job
		filesJSON    []byte
		resultJSON   sql.Null[[]byte]
		metadataJSON sql.Null[[]byte]
	)

	err := row.Scan(
		&job.ID,
		&job.Status,
		&filesJSON,
		&resultJSON,
		&metadataJSON,
		&job.ErrorDetail,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJobNotFound
		}
		log.Error("failed to scan job row", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if err := json.Unmarshal(filesJSON, &job.Files); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input manifest: %w", err)
	}

	if resultJSON.Valid && len(resultJSON.V) > 0 {
		job.Result = &domain.ContentBundle{}
		if err := json.Unmarshal(resultJSON.V, job.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal content bundle: %w", err)
		}
	}

	if metadataJSON.Valid && len(metadataJSON.V) > 0 {
		job.Metadata = &domain.Metadata{}
		if err := json.Unmarshal(metadataJSON.V, job.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &job, nil
}

// requireRowAffected converts a zero-row UPDATE/DELETE into ErrJobNotFound.
func requireRowAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrJobNotFound
	}
	return nil
}
