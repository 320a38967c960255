package extractor

import (
	"context"

	"go.uber.org/zap"

	"github.com/user/social-extractor/internal/browser"
	"github.com/user/social-extractor/internal/domain"
	"github.com/user/social-extractor/internal/monitoring"
)

// Runner opens a fresh browser session per call and guarantees its teardown.
// Each call is therefore an isolated run with its own cookie/storage scope;
// concurrent calls never share a browsing context.
type Runner struct {
	browserOpts browser.Options
	cfg         Config
	metrics     *monitoring.Metrics
	logger      *zap.Logger
}

func NewRunner(browserOpts browser.Options, cfg Config, m *monitoring.Metrics, l *zap.Logger) *Runner {
	return &Runner{browserOpts: browserOpts, cfg: cfg, metrics: m, logger: l}
}

// withSession starts a session, runs fn, and always stops the session. A
// launch failure is the one fatal error class: nothing can proceed without a
// live browser, so it propagates to the caller.
func (r *Runner) withSession(ctx context.Context, fn func(*Service) error) error {
	session := browser.NewSession(r.browserOpts, r.logger)
	if err := session.Start(ctx); err != nil {
		return err
	}
	defer session.Stop()
	return fn(New(session, r.cfg, r.metrics, r.logger))
}

func (r *Runner) ExtractImagesFromAllPlatforms(ctx context.Context, query string, platforms []string, minImages int) (*domain.AggregateResult, error) {
	var result *domain.AggregateResult
	err := r.withSession(ctx, func(s *Service) error {
		var runErr error
		result, runErr = s.ExtractImagesFromAllPlatforms(ctx, query, platforms, minImages)
		return runErr
	})
	return result, err
}

func (r *Runner) ExtractViralContent(ctx context.Context, query string, platforms []string, maxItems int) (*domain.ViralContentResult, error) {
	var result *domain.ViralContentResult
	err := r.withSession(ctx, func(s *Service) error {
		var runErr error
		result, runErr = s.ExtractViralContent(ctx, query, platforms, maxItems)
		return runErr
	})
	return result, err
}

func (r *Runner) CaptureScreenshots(ctx context.Context, urls []string, sessionID string) ([]domain.ScreenshotRecord, error) {
	var records []domain.ScreenshotRecord
	err := r.withSession(ctx, func(s *Service) error {
		var runErr error
		records, runErr = s.CaptureScreenshots(ctx, urls, sessionID)
		return runErr
	})
	return records, err
}
