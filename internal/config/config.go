package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Pipeline PipelineConfig `mapstructure:"pipeline" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// MaxUploadBytes caps the total size of one multipart upload.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// LLMConfig contains all language-model integration settings.
type LLMConfig struct {
	// APIKey authenticates against the Gemini API. Required.
	APIKey string `mapstructure:"api_key" validate:"required"`

	// BaseURL optionally overrides the API endpoint, e.g. for a proxy.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	// ModelName selects the model; defaults to gemini-2.0-flash.
	ModelName string `mapstructure:"model_name" validate:"required"`

	// TimeoutSeconds bounds a single model invocation.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// PipelineConfig contains settings for the document processing pipeline.
type PipelineConfig struct {
	// MaxChunkChars is the hard cap on chunk length in characters.
	MaxChunkChars int `mapstructure:"max_chunk_chars" validate:"gt=0"`

	// OverlapChars is the number of characters shared between
	// consecutive chunks.
	OverlapChars int `mapstructure:"overlap_chars" validate:"gte=0"`

	// WorkerCount is the number of concurrent pipeline workers.
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`

	// QueueSize is the buffer size of the in-memory job queue.
	QueueSize int `mapstructure:"queue_size" validate:"gt=0"`
}
