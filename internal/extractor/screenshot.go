package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/social-extractor/internal/domain"
)

// CaptureScreenshots navigates to each URL in order and writes a full-page
// screenshot into a session-scoped directory. Entries without an http(s)
// scheme are skipped with a log and produce no record. A failure on one URL
// is recorded and the batch continues.
func (s *Service) CaptureScreenshots(ctx context.Context, urls []string, sessionID string) ([]domain.ScreenshotRecord, error) {
	dir := filepath.Join(s.cfg.FilesDir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory %s: %w", dir, err)
	}

	records := make([]domain.ScreenshotRecord, 0, len(urls))
	for i, raw := range urls {
		u := strings.TrimSpace(raw)
		if u == "" || (!strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://")) {
			s.logger.Warn("skipping invalid screenshot URL", zap.String("url", raw))
			continue
		}

		rec := s.captureOne(ctx, u, i+1, dir)
		if rec.Success {
			s.metrics.IncScreenshot("success")
			s.logger.Info("screenshot captured",
				zap.String("url", u), zap.String("path", rec.ScreenshotPath))
		} else {
			s.metrics.IncScreenshot("failure")
			s.logger.Warn("screenshot failed", zap.String("url", u), zap.String("error", rec.Error))
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Service) captureOne(ctx context.Context, url string, index int, dir string) domain.ScreenshotRecord {
	rec := domain.ScreenshotRecord{URL: url, Index: index}

	page, err := s.browser.NewPage()
	if err != nil {
		rec.Error = fmt.Sprintf("failed to open page: %v", err)
		return rec
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			s.logger.Warn("failed to close screenshot page", zap.String("url", url), zap.Error(cerr))
		}
	}()

	if err := page.Navigate(url); err != nil {
		rec.Error = fmt.Sprintf("navigation failed: %v", err)
		return rec
	}
	s.sleep(ctx, s.cfg.SettleDelay)

	buf, err := page.Screenshot()
	if err != nil {
		rec.Error = fmt.Sprintf("capture failed: %v", err)
		return rec
	}

	path := filepath.Join(dir, fmt.Sprintf("screenshot_%03d.png", index))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		rec.Error = fmt.Sprintf("failed to write screenshot: %v", err)
		return rec
	}

	now := time.Now().UTC()
	rec.ScreenshotPath = path
	rec.CapturedAt = &now
	rec.Success = true
	return rec
}
