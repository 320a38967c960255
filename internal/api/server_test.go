package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/social-extractor/internal/api"
	"github.com/user/social-extractor/internal/config"
	"github.com/user/social-extractor/internal/domain"
	"github.com/user/social-extractor/internal/filemanager"
	"github.com/user/social-extractor/internal/monitoring"
)

type fakeExtractor struct {
	extractResult *domain.AggregateResult
	extractErr    error
	viralResult   *domain.ViralContentResult
	viralErr      error
	screenshots   []domain.ScreenshotRecord
	screenshotErr error

	extractCalls  int
	lastQuery     string
	lastPlatforms []string
	lastSessionID string
}

func (f *fakeExtractor) ExtractImagesFromAllPlatforms(_ context.Context, query string, platforms []string, _ int) (*domain.AggregateResult, error) {
	f.extractCalls++
	f.lastQuery = query
	f.lastPlatforms = platforms
	return f.extractResult, f.extractErr
}

func (f *fakeExtractor) ExtractViralContent(_ context.Context, query string, platforms []string, _ int) (*domain.ViralContentResult, error) {
	f.lastQuery = query
	f.lastPlatforms = platforms
	return f.viralResult, f.viralErr
}

func (f *fakeExtractor) CaptureScreenshots(_ context.Context, _ []string, sessionID string) ([]domain.ScreenshotRecord, error) {
	f.lastSessionID = sessionID
	return f.screenshots, f.screenshotErr
}

type fakeRunStore struct {
	run     *domain.ExtractionRun
	findErr error
	saveErr error
	pingErr error

	saved       bool
	savedQuery  string
	savedResult *domain.AggregateResult
}

func (f *fakeRunStore) SaveRun(_ context.Context, query string, _ []string, result *domain.AggregateResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = true
	f.savedQuery = query
	f.savedResult = result
	return nil
}

func (f *fakeRunStore) FindLatestRun(_ context.Context, _ string) (*domain.ExtractionRun, error) {
	return f.run, f.findErr
}

func (f *fakeRunStore) Ping(_ context.Context) error { return f.pingErr }

type fakeRunCache struct {
	recent    bool
	recentErr error
	markErr   error
	pingErr   error

	marked    bool
	markedTTL time.Duration
}

func (f *fakeRunCache) MarkExtracted(_ context.Context, _ string, _ []string, ttl time.Duration) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = true
	f.markedTTL = ttl
	return nil
}

func (f *fakeRunCache) IsRecentlyExtracted(_ context.Context, _ string, _ []string) (bool, error) {
	return f.recent, f.recentErr
}

func (f *fakeRunCache) Ping(_ context.Context) error { return f.pingErr }

func newTestServer(t *testing.T, ex api.Extractor, ps api.RunStore, rc api.RunCache) *api.Server {
	t.Helper()
	cfg := &config.Config{ServerPort: "8080", CacheTTLHours: 48}
	files, err := filemanager.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	m := monitoring.NewMetrics(prometheus.NewRegistry())
	return api.NewServer(cfg, ex, ps, rc, files, m, zap.NewNop())
}

func sampleResult(query string) *domain.AggregateResult {
	return &domain.AggregateResult{
		Query: query,
		PlatformsData: map[string]domain.PlatformResult{
			"youtube": {Platform: "youtube", Query: query, Count: 1, Success: true,
				Images: []domain.ImageRecord{{
					Platform:         "youtube",
					URL:              "https://i.ytimg.com/vi/vid1/maxresdefault.jpg",
					Type:             "video_thumbnail",
					EstimatedQuality: 0.9,
					ExtractedAt:      time.Now().UTC(),
				}}},
		},
		AllImages: []domain.ImageRecord{{
			Platform:         "youtube",
			URL:              "https://i.ytimg.com/vi/vid1/maxresdefault.jpg",
			Type:             "video_thumbnail",
			EstimatedQuality: 0.9,
			ExtractedAt:      time.Now().UTC(),
		}},
		TotalImagesExtracted: 1,
		UniqueImages:         1,
		ExtractionStarted:    time.Now().UTC(),
		ExtractionCompleted:  time.Now().UTC(),
	}
}
