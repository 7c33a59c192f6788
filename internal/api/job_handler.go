package api

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dgarridoh/studykit-api/internal/api/shared"
	"github.com/dgarridoh/studykit-api/internal/domain"
	"github.com/dgarridoh/studykit-api/internal/platform/logger"
	"github.com/dgarridoh/studykit-api/internal/service"
)

// defaultListLimit bounds GET /summaries when no limit is given.
const defaultListLimit = 20

// maxListLimit is the hard cap on GET /summaries page size.
const maxListLimit = 100

// JobHandler handles job submission and status polling requests.
type JobHandler struct {
	jobService     service.JobService
	maxUploadBytes int64
	modelName      string
	logger         *slog.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(
	jobService service.JobService,
	maxUploadBytes int64,
	modelName string,
	baseLogger *slog.Logger,
) *JobHandler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}
	return &JobHandler{
		jobService:     jobService,
		maxUploadBytes: maxUploadBytes,
		modelName:      modelName,
		logger:         baseLogger.With(slog.String("component", "job_handler")),
	}
}

// CreateJobResponse is the acknowledgement body for a submitted job.
type CreateJobResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// JobStatusResponse is the polling view of a job. Result and ErrorDetail
// are mutually exclusive: result appears only on finished jobs,
// error_detail only on failed ones.
type JobStatusResponse struct {
	ID          string                `json:"id"`
	Status      string                `json:"status"`
	Files       []domain.FileInfo     `json:"files"`
	Result      *domain.ContentBundle `json:"result,omitempty"`
	Metadata    *domain.Metadata      `json:"metadata,omitempty"`
	ErrorDetail string                `json:"error_detail,omitempty"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
}

// JobSummary is the list view of a job: status and manifest without the
// potentially large result payload.
type JobSummary struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Files     []domain.FileInfo `json:"files"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

// ListJobsResponse wraps the summaries list.
type ListJobsResponse struct {
	Jobs []JobSummary `json:"jobs"`
}

// HealthResponse reports service liveness and backing dependencies.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Model  string `json:"model"`
}

// CreateJob handles POST /process-pdfs requests. It accepts a multipart
// form of PDF files, persists a processing job and enqueues the pipeline
// task, then acknowledges with 202 and the job ID for polling.
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge,
				"Upload exceeds the maximum allowed size", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			"Invalid multipart form data", err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				log.Warn("failed to clean up multipart form", "error", err)
			}
		}
	}()

	fileHeaders := collectFileHeaders(r.MultipartForm)
	if len(fileHeaders) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No files uploaded")
		return
	}

	uploads := make([]service.Upload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if !isPDFFilename(fh.Filename) {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Only PDF files are accepted: "+fh.Filename)
			return
		}

		data, err := readMultipartFile(fh)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
				"Failed to read uploaded file: "+fh.Filename, err)
			return
		}

		uploads = append(uploads, service.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	job, err := h.jobService.CreateJobAndEnqueueTask(ctx, uploads)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	log.Info("job accepted",
		slog.String("job_id", job.ID.String()),
		slog.Int("file_count", len(uploads)))

	shared.RespondWithJSON(w, r, http.StatusAccepted, CreateJobResponse{
		ID:        job.ID.String(),
		Status:    string(job.Status),
		Message:   "Processing started",
		CreatedAt: job.CreatedAt.Format(timeFormat),
	})
}

// GetJobStatus handles GET /status/{id} requests, returning the full job
// record including the result bundle once the job is finished.
func (h *JobHandler) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.parseJobID(w, r)
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(r.Context(), jobID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, JobStatusResponse{
		ID:          job.ID.String(),
		Status:      string(job.Status),
		Files:       job.Files,
		Result:      job.Result,
		Metadata:    job.Metadata,
		ErrorDetail: job.ErrorDetail,
		CreatedAt:   job.CreatedAt.Format(timeFormat),
		UpdatedAt:   job.UpdatedAt.Format(timeFormat),
	})
}

// ListJobs handles GET /summaries requests. Supports optional status and
// limit query parameters.
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	var status domain.JobStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = domain.JobStatus(raw)
		switch status {
		case domain.JobStatusProcessing, domain.JobStatusFinished, domain.JobStatusFailed:
		default:
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Invalid status filter: "+raw)
			return
		}
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Invalid limit parameter")
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	jobs, err := h.jobService.ListJobs(r.Context(), status, limit)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	summaries := make([]JobSummary, len(jobs))
	for i, job := range jobs {
		summaries[i] = JobSummary{
			ID:        job.ID.String(),
			Status:    string(job.Status),
			Files:     job.Files,
			CreatedAt: job.CreatedAt.Format(timeFormat),
			UpdatedAt: job.UpdatedAt.Format(timeFormat),
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListJobsResponse{Jobs: summaries})
}

// DeleteJob handles DELETE /summaries/{id} requests.
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.parseJobID(w, r)
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(r.Context(), jobID); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Job deleted",
	})
}

// HealthCheck handles GET /health requests, probing store connectivity.
func (h *JobHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Store:  "ok",
		Model:  h.modelName,
	}

	if err := h.jobService.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Store = "unavailable"
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, resp)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// timeFormat is RFC 3339 with UTC timestamps as produced by the domain layer.
const timeFormat = "2006-01-02T15:04:05.999999Z07:00"

// parseJobID extracts and validates the {id} URL parameter. On failure it
// writes the error response and returns ok=false.
func (h *JobHandler) parseJobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	jobID, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return uuid.Nil, false
	}
	return jobID, true
}

// collectFileHeaders flattens all file parts of the form regardless of
// field name, preserving part order within each field.
func collectFileHeaders(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	var headers []*multipart.FileHeader
	for _, fhs := range form.File {
		headers = append(headers, fhs...)
	}
	return headers
}

// isPDFFilename reports whether the filename carries a .pdf extension.
func isPDFFilename(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// readMultipartFile reads the full content of one uploaded file part.
func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
