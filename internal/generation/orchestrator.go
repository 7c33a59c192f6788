package generation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dgarridoh/studykit-api/internal/domain"
)

// Orchestrator fans the three generation passes out concurrently over the
// same chunk sequence and fans them in unconditionally. Because every pass
// absorbs its own failures, Run never fails: it always assembles a
// complete, well-formed content bundle, possibly with placeholder sections.
type Orchestrator struct {
	generator *Generator
	logger    *slog.Logger
	modelName string
}

// NewOrchestrator creates an Orchestrator around a Generator.
// modelName is recorded in the bundle metadata of every job.
func NewOrchestrator(generator *Generator, modelName string, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		generator: generator,
		logger:    logger.With(slog.String("component", "orchestrator")),
		modelName: modelName,
	}
}

// Run executes the three passes concurrently against the chunk sequence
// and assembles the content bundle plus processing metadata. The chunk
// slice is shared read-only across the passes. The join waits for all
// three passes unconditionally; there is no short-circuit on failure since
// failures are already converted to placeholders inside each pass.
func (o *Orchestrator) Run(
	ctx context.Context,
	chunks []string,
	filenames []string,
) (*domain.ContentBundle, *domain.Metadata) {
	var (
		wg sync.WaitGroup

		outline     []domain.OutlinePoint
		quiz        []domain.QuizItem
		flashcards  []domain.Flashcard
		outlineOK   bool
		quizOK      bool
		flashcardOK bool
	)

	// Each pass populates a disjoint set of variables, so no locking is
	// needed beyond the join.
	wg.Add(3)
	go func() {
		defer wg.Done()
		outline, outlineOK = o.generator.GenerateOutline(ctx, chunks)
	}()
	go func() {
		defer wg.Done()
		quiz, quizOK = o.generator.GenerateQuiz(ctx, chunks)
	}()
	go func() {
		defer wg.Done()
		flashcards, flashcardOK = o.generator.GenerateFlashcards(ctx, chunks)
	}()
	wg.Wait()

	degraded := !outlineOK || !quizOK || !flashcardOK
	if degraded {
		o.logger.Warn("one or more generation passes degraded",
			slog.Bool("outline_ok", outlineOK),
			slog.Bool("quiz_ok", quizOK),
			slog.Bool("flashcards_ok", flashcardOK))
	}

	bundle := &domain.ContentBundle{
		OutlinePoints: outline,
		QuizItems:     quiz,
		Flashcards:    flashcards,
	}

	metadata := &domain.Metadata{
		FilesProcessed: filenames,
		TotalChunks:    len(chunks),
		ModelUsed:      o.modelName,
		ContentStats: domain.ContentStats{
			OutlinePoints: len(outline),
			QuizItems:     len(quiz),
			Flashcards:    len(flashcards),
		},
		Degraded: degraded,
	}

	o.logger.Info("content bundle assembled",
		slog.Int("bullet_points", len(outline)),
		slog.Int("quiz_questions", len(quiz)),
		slog.Int("flashcards", len(flashcards)),
		slog.Bool("degraded", degraded))

	return bundle, metadata
}
