// Package main implements the entry point for the StudyKit API server,
// which turns uploaded PDF documents into study material (outlines, quiz
// questions and flashcards) via LLM content generation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgarridoh/studykit-api/internal/config"
	"github.com/dgarridoh/studykit-api/internal/platform/logger"
	"github.com/dgarridoh/studykit-api/internal/platform/postgres"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply pending database migrations and exit")
	flag.Parse()

	if err := run(*migrateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "studykit-api: %v\n", err)
		os.Exit(1)
	}
}

// run performs startup in order: configuration, logging, database,
// application wiring, HTTP server. Kept separate from main so the exit
// path stays in one place.
func run(migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("model", cfg.LLM.ModelName))

	ctx := context.Background()

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if err := postgres.MigrateUp(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	appLogger.Info("database migrations applied")

	if migrateOnly {
		appLogger.Info("migrate-only mode, exiting")
		return db.Close()
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
