package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Minute))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealthCheck)
		r.Post("/extract", s.handleExtract)
		r.Post("/viral", s.handleViral)
		r.Post("/screenshots", s.handleScreenshots)
		r.Get("/extractions", s.handleGetExtraction)
	})

	r.Route("/files", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/list", s.handleListFiles)
		r.Post("/cleanup_old_files", s.handleCleanupOldFiles)
		r.Get("/download/*", s.handleDownload)
		r.Post("/delete", s.handleDeleteFile)
	})

	return r
}
