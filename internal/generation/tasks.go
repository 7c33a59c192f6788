package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dgarridoh/studykit-api/internal/domain"
)

// placeholderPrefix starts every placeholder item's text, letting callers
// detect degraded sections by inspecting bundle contents.
const placeholderPrefix = "Error generating"

// Generator runs the three content-generation passes against a model
// client. Each pass isolates its own failures: it returns a single
// placeholder item instead of an error, so a degraded pass never aborts
// the job it belongs to.
type Generator struct {
	client   ModelClient
	logger   *slog.Logger
	validate *validator.Validate

	// timeout bounds a single model invocation; each pass retries a
	// failed invocation at most once.
	timeout time.Duration
}

// NewGenerator creates a Generator.
// If timeout is non-positive a 60s default applies; if logger is nil a
// default logger is used.
func NewGenerator(client ModelClient, timeout time.Duration, logger *slog.Logger) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("model client cannot be nil")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		client:   client,
		logger:   logger.With(slog.String("component", "generator")),
		validate: validator.New(),
		timeout:  timeout,
	}, nil
}

// GenerateOutline produces the bullet-point summary section.
// The boolean reports whether real content was produced; false means the
// returned list is a single placeholder item.
func (g *Generator) GenerateOutline(ctx context.Context, chunks []string) ([]domain.OutlinePoint, bool) {
	var parsed struct {
		BulletPoints []domain.OutlinePoint `json:"bullet_points"`
	}

	err := g.runPass(ctx, "outline", outlineInstructions, chunks, &parsed, func() error {
		return validateItems(g.validate, parsed.BulletPoints)
	})
	if err != nil {
		return []domain.OutlinePoint{{
			Point:           fmt.Sprintf("%s bullet points: %v", placeholderPrefix, err),
			ImportanceLevel: domain.ImportanceHigh,
		}}, false
	}

	return parsed.BulletPoints, true
}

// GenerateQuiz produces the multiple-choice question section.
// The boolean reports whether real content was produced.
func (g *Generator) GenerateQuiz(ctx context.Context, chunks []string) ([]domain.QuizItem, bool) {
	var parsed struct {
		QuizQuestions []domain.QuizItem `json:"quiz_questions"`
	}

	err := g.runPass(ctx, "quiz", quizInstructions, chunks, &parsed, func() error {
		return validateItems(g.validate, parsed.QuizQuestions)
	})
	if err != nil {
		return []domain.QuizItem{{
			Question:      fmt.Sprintf("%s quiz questions: %v", placeholderPrefix, err),
			OptionA:       "Option A",
			OptionB:       "Option B",
			OptionC:       "Option C",
			OptionD:       "Option D",
			CorrectAnswer: "A",
			Explanation:   "Generation failed",
		}}, false
	}

	return parsed.QuizQuestions, true
}

// GenerateFlashcards produces the flashcard section.
// The boolean reports whether real content was produced.
func (g *Generator) GenerateFlashcards(ctx context.Context, chunks []string) ([]domain.Flashcard, bool) {
	var parsed struct {
		Flashcards []domain.Flashcard `json:"flashcards"`
	}

	err := g.runPass(ctx, "flashcards", flashcardInstructions, chunks, &parsed, func() error {
		return validateItems(g.validate, parsed.Flashcards)
	})
	if err != nil {
		return []domain.Flashcard{{
			Front:    fmt.Sprintf("%s flashcards: %v", placeholderPrefix, err),
			Back:     "Generation failed",
			Category: "Error",
		}}, false
	}

	return parsed.Flashcards, true
}

// runPass executes one generation pass: build the prompt, invoke the model
// (with timeout and a single retry), locate the JSON object in the response
// and decode it into out, then run the pass-specific validation.
func (g *Generator) runPass(
	ctx context.Context,
	pass string,
	instructions string,
	chunks []string,
	out any,
	validateFn func() error,
) error {
	log := g.logger.With(slog.String("pass", pass))

	if len(chunks) == 0 {
		log.Warn("generation pass invoked without chunks")
		return ErrNoChunks
	}

	prompt := buildPrompt(instructions, chunks)

	response, err := g.invoke(ctx, prompt)
	if err != nil {
		log.Warn("model invocation failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrModelInvocation, err)
	}

	raw := extractJSONObject(response)
	if raw == "" {
		log.Warn("no JSON object in model response",
			slog.Int("response_length", len(response)))
		return ErrNoJSONObject
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Warn("failed to decode model response", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if err := validateFn(); err != nil {
		log.Warn("model response failed validation", slog.String("error", err.Error()))
		return err
	}

	log.Info("generation pass completed")
	return nil
}

// invoke calls the model with a bounded timeout, retrying once on failure.
// Retries cover invocation errors only; parse failures are deterministic
// for a given response and retrying them would waste quota.
func (g *Generator) invoke(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		response, err := g.client.Generate(callCtx, prompt)
		cancel()

		if err == nil {
			return response, nil
		}
		lastErr = err

		// Don't retry when the parent context is already gone.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", lastErr
}

// validateItems runs strict schema validation over every decoded item,
// failing closed on the first mismatch. An empty list is also a failure:
// a pass that produced nothing degrades to a placeholder.
func validateItems[T any](v *validator.Validate, items []T) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no items in response", ErrInvalidResponse)
	}

	for i, item := range items {
		if err := v.Struct(item); err != nil {
			return fmt.Errorf("%w: item %d: %v", ErrInvalidResponse, i, err)
		}
	}

	return nil
}
