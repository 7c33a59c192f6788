package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest() []FileInfo {
	return []FileInfo{
		{Filename: "notes.pdf", Size: 2048, ContentType: "application/pdf"},
		{Filename: "slides.pdf", Size: 4096, ContentType: "application/pdf"},
	}
}

func testBundle() *ContentBundle {
	return &ContentBundle{
		OutlinePoints: []OutlinePoint{{Point: "Key idea", ImportanceLevel: ImportanceHigh}},
		QuizItems: []QuizItem{{
			Question:      "Which option is correct?",
			OptionA:       "A",
			OptionB:       "B",
			OptionC:       "C",
			OptionD:       "D",
			CorrectAnswer: "A",
		}},
		Flashcards: []Flashcard{{Front: "Term", Back: "Definition"}},
	}
}

func TestNewJob(t *testing.T) {
	t.Parallel()

	job, err := NewJob(testManifest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.Len(t, job.Files, 2)
	assert.Nil(t, job.Result)
	assert.Empty(t, job.ErrorDetail)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Equal(t, job.CreatedAt, job.UpdatedAt)
}

func TestNewJob_EmptyManifest(t *testing.T) {
	t.Parallel()

	_, err := NewJob(nil)
	assert.ErrorIs(t, err, ErrEmptyManifest)
}

func TestNewJob_EmptyFilename(t *testing.T) {
	t.Parallel()

	_, err := NewJob([]FileInfo{{Filename: ""}})
	assert.ErrorIs(t, err, ErrEmptyFilename)
}

func TestJobValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(j *Job)
		wantErr error
	}{
		{
			name:    "valid processing job",
			mutate:  func(j *Job) {},
			wantErr: nil,
		},
		{
			name:    "nil ID",
			mutate:  func(j *Job) { j.ID = uuid.Nil },
			wantErr: ErrEmptyJobID,
		},
		{
			name:    "unknown status",
			mutate:  func(j *Job) { j.Status = "queued" },
			wantErr: ErrInvalidJobStatus,
		},
		{
			name:    "result on processing job",
			mutate:  func(j *Job) { j.Result = testBundle() },
			wantErr: ErrResultOnNonFinished,
		},
		{
			name: "result on failed job",
			mutate: func(j *Job) {
				j.Status = JobStatusFailed
				j.ErrorDetail = "boom"
				j.Result = testBundle()
			},
			wantErr: ErrResultOnNonFinished,
		},
		{
			name:    "error detail on processing job",
			mutate:  func(j *Job) { j.ErrorDetail = "boom" },
			wantErr: ErrErrorDetailOnNonFailed,
		},
		{
			name: "error detail on finished job",
			mutate: func(j *Job) {
				j.Status = JobStatusFinished
				j.Result = testBundle()
				j.ErrorDetail = "boom"
			},
			wantErr: ErrErrorDetailOnNonFailed,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			job, err := NewJob(testManifest())
			require.NoError(t, err)

			tc.mutate(job)
			err = job.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestMarkFinished(t *testing.T) {
	t.Parallel()

	job, err := NewJob(testManifest())
	require.NoError(t, err)

	bundle := testBundle()
	meta := &Metadata{
		FilesProcessed: []string{"notes.pdf", "slides.pdf"},
		TotalChunks:    3,
		ModelUsed:      "gemini-2.0-flash",
	}

	before := job.UpdatedAt
	require.NoError(t, job.MarkFinished(bundle, meta))

	assert.Equal(t, JobStatusFinished, job.Status)
	assert.Equal(t, bundle, job.Result)
	assert.Equal(t, meta, job.Metadata)
	assert.Empty(t, job.ErrorDetail)
	assert.True(t, job.IsTerminal())
	assert.False(t, job.UpdatedAt.Before(before))
	assert.NoError(t, job.Validate())
}

func TestMarkFinished_NilResult(t *testing.T) {
	t.Parallel()

	job, err := NewJob(testManifest())
	require.NoError(t, err)

	assert.ErrorIs(t, job.MarkFinished(nil, nil), ErrNilResult)
	assert.Equal(t, JobStatusProcessing, job.Status)
}

func TestMarkFailed(t *testing.T) {
	t.Parallel()

	job, err := NewJob(testManifest())
	require.NoError(t, err)

	require.NoError(t, job.MarkFailed("Processing failed: corrupt document"))

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "Processing failed: corrupt document", job.ErrorDetail)
	assert.Nil(t, job.Result)
	assert.True(t, job.IsTerminal())
	assert.NoError(t, job.Validate())
}

func TestMarkFailed_EmptyDetailGetsDefault(t *testing.T) {
	t.Parallel()

	job, err := NewJob(testManifest())
	require.NoError(t, err)

	require.NoError(t, job.MarkFailed(""))
	assert.NotEmpty(t, job.ErrorDetail)
}

func TestTerminalStatesAreAbsorbing(t *testing.T) {
	t.Parallel()

	t.Run("finished stays finished", func(t *testing.T) {
		t.Parallel()

		job, err := NewJob(testManifest())
		require.NoError(t, err)
		require.NoError(t, job.MarkFinished(testBundle(), nil))

		assert.ErrorIs(t, job.MarkFailed("late failure"), ErrTerminalState)
		assert.ErrorIs(t, job.MarkFinished(testBundle(), nil), ErrTerminalState)
		assert.Equal(t, JobStatusFinished, job.Status)
		assert.NotNil(t, job.Result)
	})

	t.Run("failed stays failed", func(t *testing.T) {
		t.Parallel()

		job, err := NewJob(testManifest())
		require.NoError(t, err)
		require.NoError(t, job.MarkFailed("boom"))

		assert.ErrorIs(t, job.MarkFinished(testBundle(), nil), ErrTerminalState)
		assert.ErrorIs(t, job.MarkFailed("second boom"), ErrTerminalState)
		assert.Equal(t, JobStatusFailed, job.Status)
		assert.Equal(t, "boom", job.ErrorDetail)
	})
}
