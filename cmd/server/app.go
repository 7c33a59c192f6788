package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgarridoh/studykit-api/internal/chunker"
	"github.com/dgarridoh/studykit-api/internal/config"
	"github.com/dgarridoh/studykit-api/internal/extractor"
	"github.com/dgarridoh/studykit-api/internal/generation"
	"github.com/dgarridoh/studykit-api/internal/platform/gemini"
	"github.com/dgarridoh/studykit-api/internal/platform/postgres"
	"github.com/dgarridoh/studykit-api/internal/service"
	"github.com/dgarridoh/studykit-api/internal/store"
	"github.com/dgarridoh/studykit-api/internal/task"
)

// application holds the shared application dependencies to simplify
// wiring and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jobStore   store.JobStore
	jobService service.JobService
	taskRunner *task.Runner
}

// newApplication creates a new application instance with all dependencies
// initialized. Construction order follows the dependency chain: store,
// LLM client, pipeline components, task runner, then the job service.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.jobStore = postgres.NewPostgresJobStore(db, logger)

	modelClient, err := gemini.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	logger.Info("LLM client initialized", slog.String("model", cfg.LLM.ModelName))

	generator, err := generation.NewGenerator(
		modelClient,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize content generator: %w", err)
	}

	orchestrator := generation.NewOrchestrator(generator, cfg.LLM.ModelName, logger)
	pdfExtractor := extractor.NewPDFExtractor(logger)
	textChunker := chunker.New(cfg.Pipeline.MaxChunkChars, cfg.Pipeline.OverlapChars)

	app.taskRunner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Pipeline.WorkerCount,
		QueueSize:   cfg.Pipeline.QueueSize,
	}, logger)
	app.taskRunner.Start()

	taskFactory := task.NewJobProcessingTaskFactory(
		app.jobStore,
		pdfExtractor,
		textChunker,
		orchestrator,
		logger,
	)

	app.jobService, err = service.NewJobService(
		app.jobStore,
		app.taskRunner,
		taskFactory,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown completes.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
// The task runner is stopped before the database closes so in-flight
// pipeline tasks can still persist their terminal state.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
