package domain

// ImportanceLevel classifies how central an outline point is to the
// source material.
type ImportanceLevel string

// Possible importance levels for outline points.
const (
	ImportanceHigh   ImportanceLevel = "high"
	ImportanceMedium ImportanceLevel = "medium"
	ImportanceLow    ImportanceLevel = "low"
)

// OutlinePoint is a single summary bullet produced by the outline
// generation pass.
type OutlinePoint struct {
	Point           string          `json:"point"            validate:"required"`
	ImportanceLevel ImportanceLevel `json:"importance_level" validate:"required,oneof=high medium low"`
}

// QuizItem is a four-option multiple-choice question produced by the quiz
// generation pass. CorrectAnswer is the letter tag of the right option.
type QuizItem struct {
	Question      string `json:"question"       validate:"required"`
	OptionA       string `json:"option_a"       validate:"required"`
	OptionB       string `json:"option_b"       validate:"required"`
	OptionC       string `json:"option_c"       validate:"required"`
	OptionD       string `json:"option_d"       validate:"required"`
	CorrectAnswer string `json:"correct_answer" validate:"required,oneof=A B C D"`
	Explanation   string `json:"explanation"`
}

// Flashcard is a front/back study card produced by the flashcard
// generation pass.
type Flashcard struct {
	Front    string `json:"front"    validate:"required"`
	Back     string `json:"back"     validate:"required"`
	Category string `json:"category"`
}

// ContentBundle is the aggregate result of a successful job: one ordered
// list per generation pass. Assembled once by the orchestrator and
// immutable afterwards.
type ContentBundle struct {
	OutlinePoints []OutlinePoint `json:"bullet_points"`
	QuizItems     []QuizItem     `json:"quiz_questions"`
	Flashcards    []Flashcard    `json:"flashcards"`
}

// ContentStats holds per-section item counts for a finished job.
type ContentStats struct {
	OutlinePoints int `json:"bullet_points_count"`
	QuizItems     int `json:"quiz_questions_count"`
	Flashcards    int `json:"flashcards_count"`
}

// Metadata records processing statistics for a finished job.
// Degraded is true when at least one generation pass could not produce
// real content and substituted a placeholder item; the job still reports
// finished in that case.
type Metadata struct {
	FilesProcessed []string     `json:"files_processed"`
	TotalChunks    int          `json:"total_chunks"`
	ModelUsed      string       `json:"model_used"`
	ContentStats   ContentStats `json:"content_stats"`
	Degraded       bool         `json:"degraded"`
}
