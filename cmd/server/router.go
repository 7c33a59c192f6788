package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgarridoh/studykit-api/internal/api"
	apiMiddleware "github.com/dgarridoh/studykit-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	jobHandler := api.NewJobHandler(
		app.jobService,
		app.config.Server.MaxUploadBytes,
		app.config.LLM.ModelName,
		app.logger,
	)

	r.Post("/process-pdfs", jobHandler.CreateJob)
	r.Get("/status/{id}", jobHandler.GetJobStatus)
	r.Get("/summaries", jobHandler.ListJobs)
	r.Delete("/summaries/{id}", jobHandler.DeleteJob)
	r.Get("/health", jobHandler.HealthCheck)

	return r
}
