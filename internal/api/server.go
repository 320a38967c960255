package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/social-extractor/internal/config"
	"github.com/user/social-extractor/internal/domain"
	"github.com/user/social-extractor/internal/filemanager"
	"github.com/user/social-extractor/internal/monitoring"
)

// Extractor is the extraction surface the HTTP layer depends on.
type Extractor interface {
	ExtractImagesFromAllPlatforms(ctx context.Context, query string, platforms []string, minImages int) (*domain.AggregateResult, error)
	ExtractViralContent(ctx context.Context, query string, platforms []string, maxItems int) (*domain.ViralContentResult, error)
	CaptureScreenshots(ctx context.Context, urls []string, sessionID string) ([]domain.ScreenshotRecord, error)
}

// RunStore persists extraction runs.
type RunStore interface {
	SaveRun(ctx context.Context, query string, platforms []string, result *domain.AggregateResult) error
	FindLatestRun(ctx context.Context, query string) (*domain.ExtractionRun, error)
	Ping(ctx context.Context) error
}

// RunCache tracks which queries were extracted recently.
type RunCache interface {
	MarkExtracted(ctx context.Context, query string, platforms []string, ttl time.Duration) error
	IsRecentlyExtracted(ctx context.Context, query string, platforms []string) (bool, error)
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	extractor  Extractor
	pgStore    RunStore
	redisStore RunCache
	files      *filemanager.Manager
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, ex Extractor, ps RunStore, rs RunCache, fm *filemanager.Manager, m *monitoring.Metrics, l *zap.Logger) *Server {
	s := &Server{
		config:     cfg,
		extractor:  ex,
		pgStore:    ps,
		redisStore: rs,
		files:      fm,
		metrics:    m,
		logger:     l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		// Extraction requests drive a real browser and can run for minutes.
		WriteTimeout: 15 * time.Minute,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
