package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgarridoh/studykit-api/internal/domain"
	"github.com/dgarridoh/studykit-api/internal/extractor"
	"github.com/dgarridoh/studykit-api/internal/mocks"
	"github.com/dgarridoh/studykit-api/internal/service"
	"github.com/dgarridoh/studykit-api/internal/task"
)

// discardRunner accepts tasks without executing them, leaving jobs in
// processing.
type discardRunner struct{}

func (r *discardRunner) Submit(ctx context.Context, t task.Task) error { return nil }

// stubFactory hands out no-op tasks.
type stubFactory struct{}

func (f *stubFactory) CreateTask(jobID uuid.UUID, docs []extractor.Document) (task.Task, error) {
	return &noopTask{id: uuid.New()}, nil
}

type noopTask struct {
	id uuid.UUID
}

func (t *noopTask) ID() uuid.UUID                     { return t.id }
func (t *noopTask) Type() string                      { return "noop" }
func (t *noopTask) Execute(ctx context.Context) error { return nil }

const testMaxUpload = 1 << 20

func newTestRouter(t *testing.T, jobStore *mocks.MemoryJobStore) http.Handler {
	t.Helper()

	svc, err := service.NewJobService(jobStore, &discardRunner{}, &stubFactory{}, nil)
	require.NoError(t, err)

	handler := NewJobHandler(svc, testMaxUpload, "gemini-2.0-flash", nil)

	r := chi.NewRouter()
	r.Post("/process-pdfs", handler.CreateJob)
	r.Get("/status/{id}", handler.GetJobStatus)
	r.Get("/summaries", handler.ListJobs)
	r.Delete("/summaries/{id}", handler.DeleteJob)
	r.Get("/health", handler.HealthCheck)
	return r
}

// multipartBody builds a multipart request body with the given files.
func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func TestCreateJob_Accepted(t *testing.T) {
	t.Parallel()

	jobStore := mocks.NewMemoryJobStore()
	router := newTestRouter(t, jobStore)

	body, contentType := multipartBody(t, map[string][]byte{
		"lecture.pdf": []byte("%PDF-1.4 fake"),
	})
	req := httptest.NewRequest(http.MethodPost, "/process-pdfs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp CreateJobResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, string(domain.JobStatusProcessing), resp.Status)
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.CreatedAt)

	jobID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	stored, err := jobStore.GetByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusProcessing, stored.Status)
	require.Len(t, stored.Files, 1)
	assert.Equal(t, "lecture.pdf", stored.Files[0].Filename)
}

func TestCreateJob_NoFiles(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, mocks.NewMemoryJobStore())

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/process-pdfs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJob_RejectsNonPDF(t *testing.T) {
	t.Parallel()

	jobStore := mocks.NewMemoryJobStore()
	router := newTestRouter(t, jobStore)

	body, contentType := multipartBody(t, map[string][]byte{
		"notes.docx": []byte("not a pdf"),
	})
	req := httptest.NewRequest(http.MethodPost, "/process-pdfs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Contains(t, resp["error"], "notes.docx")

	// Nothing persisted for a rejected upload.
	assert.Equal(t, 0, jobStore.Len())
}

func TestCreateJob_UppercaseExtensionAccepted(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, mocks.NewMemoryJobStore())

	body, contentType := multipartBody(t, map[string][]byte{
		"SLIDES.PDF": []byte("%PDF-1.4"),
	})
	req := httptest.NewRequest(http.MethodPost, "/process-pdfs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestCreateJob_NotMultipart(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, mocks.NewMemoryJobStore())

	req := httptest.NewRequest(http.MethodPost, "/process-pdfs",
		bytes.NewBufferString(`{"files": []}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobStatus_Processing(t *testing.T) {
	t.Parallel()

	jobStore := mocks.NewMemoryJobStore()
	router := newTestRouter(t, jobStore)

	job, err := domain.NewJob([]domain.FileInfo{{Filename: "doc.pdf", Size: 10}})
	require.NoError(t, err)
	require.NoError(t, jobStore.Create(context.Background(), job))

	req := httptest.NewRequest(http.MethodGet, "/status/"+job.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp JobStatusResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, job.ID.String(), resp.ID)
	assert.Equal(t, string(domain.JobStatusProcessing), resp.Status)
	assert.Nil(t, resp.Result)
	assert.Empty(t, resp.ErrorDetail)
}

func TestGetJobStatus_FinishedIncludesResult(t *testing.T) {
	t.Parallel()

	jobStore := mocks.NewMemoryJobStore()
	router := newTestRouter(t, jobStore)

	job, err := domain.NewJob([]domain.FileInfo{{Filename: "doc.pdf", Size: 10}})
	require.NoError(t, err)
	require.NoError(t, jobStore.Create(context.Background(), job))

	bundle := &domain.ContentBundle{
		OutlinePoints: []domain.OutlinePoint{{Point: "p", ImportanceLevel: domain.ImportanceHigh}},
		QuizItems: []domain.QuizItem{{
			Question: "q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d",
			CorrectAnswer: "A",
		}},
		Flashcards: []domain.Flashcard{{Front: "f", Back: "b"}},
	}
	meta := &domain.Metadata{TotalChunks: 2, ModelUsed: "gemini-2.0-flash"}
	require.NoError(t, jobStore.MarkFinished(context.Background(), job.ID, bundle, meta))

	req := httptest.NewRequest(http.MethodGet, "/status/"+job.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp JobStatusResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, string(domain.JobStatusFinished), resp.Status)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.OutlinePoints, 1)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, 2, resp.Metadata.TotalChunks)
}

func TestGetJobStatus_NotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, mocks.NewMemoryJobStore())

	req := httptest.NewRequest(http.MethodGet, "/status/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobStatus_InvalidID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, mocks.NewMemoryJobStore())

	req := httptest.NewRequest(http.MethodGet, "/status/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListJobs(t *testing.T) {
	t.Parallel()

	jobStore := mocks.NewMemoryJobStore()
	router := newTestRouter(t, jobStore)

	var failedID uuid.UUID
	for i := 0; i < 3; i++ {
		job, err := domain.NewJob([]domain.FileInfo{{Filename: "doc.pdf", Size: 10}})
		require.NoError(t, err)
		require.NoError(t, jobStore.Create(context.Background(), job))
		if i == 0 {
			failedID = job.ID
			require.NoError(t, jobStore.MarkFailed(context.Background(), job.ID, "boom"))
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/summaries", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListJobsResponse
	decodeJSON(t, rec, &resp)
	assert.Len(t, resp.Jobs, 3)

	req = httptest.NewRequest(http.MethodGet, "/summaries?status=failed", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp = ListJobsResponse{}
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, failedID.String(), resp.Jobs[0].ID)
}

func TestListJobs_InvalidParams(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, mocks.NewMemoryJobStore())

	for _, target := range []string{
		"/summaries?status=bogus",
		"/summaries?limit=0",
		"/summaries?limit=abc",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestDeleteJob(t *testing.T) {
	t.Parallel()

	jobStore := mocks.NewMemoryJobStore()
	router := newTestRouter(t, jobStore)

	job, err := domain.NewJob([]domain.FileInfo{{Filename: "doc.pdf", Size: 10}})
	require.NoError(t, err)
	require.NoError(t, jobStore.Create(context.Background(), job))

	req := httptest.NewRequest(http.MethodDelete, "/summaries/"+job.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, jobStore.Len())

	// Deleting again yields 404.
	req = httptest.NewRequest(http.MethodDelete, "/summaries/"+job.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	jobStore := mocks.NewMemoryJobStore()
	router := newTestRouter(t, jobStore)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
}

func TestHealthCheck_StoreUnavailable(t *testing.T) {
	t.Parallel()

	jobStore := mocks.NewMemoryJobStore()
	jobStore.PingErr = context.DeadlineExceeded
	router := newTestRouter(t, jobStore)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unavailable", resp.Store)
}
