package generation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// respondByPass routes a canned response per generation pass by sniffing
// the instruction block at the head of the prompt.
func respondByPass(outline, quiz, flashcards string) func(ctx context.Context, prompt string) (string, error) {
	return func(ctx context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "bullet point summary"):
			return outline, nil
		case strings.Contains(prompt, "quiz creator"):
			return quiz, nil
		default:
			return flashcards, nil
		}
	}
}

func newTestOrchestrator(t *testing.T, client ModelClient) *Orchestrator {
	t.Helper()
	g, err := NewGenerator(client, time.Second, nil)
	require.NoError(t, err)
	return NewOrchestrator(g, "gemini-2.0-flash", nil)
}

func TestOrchestratorRun_AllPassesSucceed(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		fn: respondByPass(validOutlineResponse, validQuizResponse, validFlashcardResponse),
	}
	o := newTestOrchestrator(t, client)

	chunks := []string{"chunk one", "chunk two"}
	bundle, meta := o.Run(context.Background(), chunks, []string{"doc.pdf"})

	require.NotNil(t, bundle)
	require.NotNil(t, meta)

	assert.Len(t, bundle.OutlinePoints, 2)
	assert.Len(t, bundle.QuizItems, 1)
	assert.Len(t, bundle.Flashcards, 1)

	assert.False(t, meta.Degraded)
	assert.Equal(t, []string{"doc.pdf"}, meta.FilesProcessed)
	assert.Equal(t, 2, meta.TotalChunks)
	assert.Equal(t, "gemini-2.0-flash", meta.ModelUsed)
	assert.Equal(t, 2, meta.ContentStats.OutlinePoints)
	assert.Equal(t, 1, meta.ContentStats.QuizItems)
	assert.Equal(t, 1, meta.ContentStats.Flashcards)

	// One call per pass.
	assert.Equal(t, 3, client.callCount())
}

func TestOrchestratorRun_OneDegradedPassStillCompletes(t *testing.T) {
	t.Parallel()

	// Quiz pass returns garbage; the other two succeed.
	client := &stubClient{
		fn: respondByPass(validOutlineResponse, "not json at all", validFlashcardResponse),
	}
	o := newTestOrchestrator(t, client)

	bundle, meta := o.Run(context.Background(), []string{"chunk"}, []string{"doc.pdf"})

	require.NotNil(t, bundle)
	assert.True(t, meta.Degraded)

	// The degraded section holds exactly one placeholder item; the healthy
	// sections carry real content.
	require.Len(t, bundle.QuizItems, 1)
	assert.True(t, strings.HasPrefix(bundle.QuizItems[0].Question, placeholderPrefix))
	assert.Len(t, bundle.OutlinePoints, 2)
	assert.Len(t, bundle.Flashcards, 1)
}

func TestOrchestratorRun_AllPassesDegraded(t *testing.T) {
	t.Parallel()

	client := &stubClient{response: "no json here"}
	o := newTestOrchestrator(t, client)

	bundle, meta := o.Run(context.Background(), []string{"chunk"}, nil)

	require.NotNil(t, bundle)
	assert.True(t, meta.Degraded)
	require.Len(t, bundle.OutlinePoints, 1)
	require.Len(t, bundle.QuizItems, 1)
	require.Len(t, bundle.Flashcards, 1)
	assert.True(t, strings.HasPrefix(bundle.OutlinePoints[0].Point, placeholderPrefix))
	assert.True(t, strings.HasPrefix(bundle.Flashcards[0].Front, placeholderPrefix))
}
