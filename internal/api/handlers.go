package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/social-extractor/internal/domain"
)

// ExtractRequest is the payload for POST /api/extract.
type ExtractRequest struct {
	Query     string   `json:"query"`
	Platforms []string `json:"platforms,omitempty"`
	MinImages int      `json:"min_images,omitempty"`
	// Force bypasses the recent-extraction cache.
	Force bool `json:"force,omitempty"`
}

// ViralRequest is the payload for POST /api/viral.
type ViralRequest struct {
	Query     string   `json:"query"`
	Platforms []string `json:"platforms,omitempty"`
	MaxItems  int      `json:"max_items,omitempty"`
}

// ScreenshotRequest is the payload for POST /api/screenshots.
type ScreenshotRequest struct {
	URLs      []string `json:"urls"`
	SessionID string   `json:"session_id"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		s.respondWithError(w, http.StatusBadRequest, "Query cannot be empty")
		return
	}

	if !req.Force {
		if cached := s.lookupRecentRun(r.Context(), req.Query, req.Platforms); cached != nil {
			s.respondWithJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := s.extractor.ExtractImagesFromAllPlatforms(r.Context(), req.Query, req.Platforms, req.MinImages)
	if result == nil {
		s.logger.Error("extraction failed", zap.String("query", req.Query), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Extraction failed")
		return
	}
	if err != nil {
		// Partial run: report what succeeded, never discard completed work.
		s.logger.Warn("extraction ended early", zap.String("query", req.Query), zap.Error(err))
	}

	s.persistRun(r.Context(), req.Query, req.Platforms, result)
	s.respondWithJSON(w, http.StatusOK, result)
}

// lookupRecentRun returns the stored result when the query is still fresh in
// the cache; any cache or store failure just falls through to a live run.
func (s *Server) lookupRecentRun(ctx context.Context, query string, platforms []string) *domain.AggregateResult {
	recent, err := s.redisStore.IsRecentlyExtracted(ctx, query, platforms)
	if err != nil {
		s.logger.Warn("failed to check extraction cache", zap.String("query", query), zap.Error(err))
		s.metrics.IncError("cache_failed")
		return nil
	}
	if !recent {
		return nil
	}
	run, err := s.pgStore.FindLatestRun(ctx, query)
	if err != nil {
		s.logger.Warn("failed to load stored run", zap.String("query", query), zap.Error(err))
		s.metrics.IncError("db_load_failed")
		return nil
	}
	if run == nil {
		return nil
	}
	s.logger.Info("serving extraction from store", zap.String("query", query))
	return run.Result
}

// persistRun stores the result and refreshes the cache marker. Storage
// failures are logged and counted; they never fail the request that did the
// extraction work.
func (s *Server) persistRun(ctx context.Context, query string, platforms []string, result *domain.AggregateResult) {
	if err := s.pgStore.SaveRun(ctx, query, platforms, result); err != nil {
		s.logger.Error("failed to save extraction run", zap.String("query", query), zap.Error(err))
		s.metrics.IncError("db_save_failed")
		return
	}
	if err := s.redisStore.MarkExtracted(ctx, query, platforms, s.config.CacheTTL()); err != nil {
		s.logger.Warn("failed to mark extraction as recent", zap.String("query", query), zap.Error(err))
		s.metrics.IncError("cache_failed")
	}
}

func (s *Server) handleViral(w http.ResponseWriter, r *http.Request) {
	var req ViralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		s.respondWithError(w, http.StatusBadRequest, "Query cannot be empty")
		return
	}

	result, err := s.extractor.ExtractViralContent(r.Context(), req.Query, req.Platforms, req.MaxItems)
	if result == nil {
		s.logger.Error("viral extraction failed", zap.String("query", req.Query), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Extraction failed")
		return
	}
	s.respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleScreenshots(w http.ResponseWriter, r *http.Request) {
	var req ScreenshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.URLs) == 0 {
		s.respondWithError(w, http.StatusBadRequest, "URLs list cannot be empty")
		return
	}
	if req.SessionID == "" {
		s.respondWithError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	records, err := s.extractor.CaptureScreenshots(r.Context(), req.URLs, req.SessionID)
	if err != nil {
		s.logger.Error("screenshot batch failed", zap.String("session_id", req.SessionID), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Screenshot capture failed")
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"screenshots": records,
	})
}

func (s *Server) handleGetExtraction(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		s.respondWithError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	run, err := s.pgStore.FindLatestRun(r.Context(), query)
	if err != nil {
		s.logger.Error("failed to load stored run", zap.String("query", query), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not load extraction")
		return
	}
	if run == nil {
		s.respondWithError(w, http.StatusNotFound, "No extraction found for query")
		return
	}
	s.respondWithJSON(w, http.StatusOK, run.Result)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string)

	if err := s.pgStore.Ping(ctx); err != nil {
		healthStatus["postgres"] = "unhealthy"
		s.logger.Error("health check failed for postgres", zap.Error(err))
	} else {
		healthStatus["postgres"] = "healthy"
	}

	if err := s.redisStore.Ping(ctx); err != nil {
		healthStatus["redis"] = "unhealthy"
		s.logger.Error("health check failed for redis", zap.Error(err))
	} else {
		healthStatus["redis"] = "healthy"
	}

	if healthStatus["postgres"] != "healthy" || healthStatus["redis"] != "healthy" {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
