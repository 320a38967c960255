package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/social-extractor/internal/browser"
	"github.com/user/social-extractor/internal/domain"
	"github.com/user/social-extractor/internal/monitoring"
)

const maxAltTextLen = 200

// Config holds the immutable run parameters for an extraction service.
type Config struct {
	MaxImagesPerPlatform int
	MinImagesPerPlatform int
	ScrollAttempts       int
	ScrollDelay          time.Duration
	RequestDelay         time.Duration
	SettleDelay          time.Duration
	FilesDir             string
}

// Service drives a browser session to extract images across platforms.
// Platforms are processed strictly sequentially; the inter-platform delay is
// a deliberate throttle against anti-bot rate limiting, not an optimization.
type Service struct {
	browser browser.Browser
	cfg     Config
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

func New(b browser.Browser, cfg Config, m *monitoring.Metrics, l *zap.Logger) *Service {
	return &Service{browser: b, cfg: cfg, metrics: m, logger: l}
}

// extractPlatform runs the scroll-and-harvest loop for one platform. Any
// page-level failure degrades to a PlatformResult carrying the error; it
// never propagates.
func (s *Service) extractPlatform(ctx context.Context, p Platform, query string, minImages int) domain.PlatformResult {
	result := domain.PlatformResult{
		Platform: p.Name,
		Query:    query,
		Images:   []domain.ImageRecord{},
	}

	if !p.Enabled {
		s.logger.Warn("platform extraction disabled by policy", zap.String("platform", p.Name))
		return result
	}

	page, err := s.browser.NewPage()
	if err != nil {
		result.Error = fmt.Sprintf("failed to open page: %v", err)
		return result
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			s.logger.Warn("failed to close page", zap.String("platform", p.Name), zap.Error(cerr))
		}
	}()

	searchURL := p.SearchURL(query)
	s.logger.Info("navigating to platform search",
		zap.String("platform", p.Name), zap.String("url", searchURL))

	if err := page.Navigate(searchURL); err != nil {
		result.Error = fmt.Sprintf("navigation failed: %v", err)
		return result
	}
	s.sleep(ctx, s.cfg.SettleDelay)

	seen := make(map[string]bool)
	for pass := 0; pass < s.cfg.ScrollAttempts; pass++ {
		html, err := page.HTML()
		if err != nil {
			// A failed snapshot loses one pass, not the platform.
			s.logger.Warn("failed to snapshot page",
				zap.String("platform", p.Name), zap.Int("pass", pass), zap.Error(err))
		} else {
			budget := s.cfg.MaxImagesPerPlatform - len(result.Images)
			result.Images = append(result.Images, HarvestImages(p, html, seen, budget)...)
		}

		if len(result.Images) >= s.cfg.MaxImagesPerPlatform {
			break
		}
		if err := page.Scroll(); err != nil {
			s.logger.Debug("scroll failed", zap.String("platform", p.Name), zap.Error(err))
		}
		if !s.sleep(ctx, s.cfg.ScrollDelay+p.ExtraScrollDelay) {
			break
		}
	}

	result.Count = len(result.Images)
	result.Success = result.Count >= minImages
	s.logger.Info("platform extraction finished",
		zap.String("platform", p.Name), zap.Int("count", result.Count), zap.Bool("success", result.Success))
	return result
}

// HarvestImages parses an HTML snapshot and returns the image records found
// by the platform's selector list that are not yet in seen, at most budget
// of them. Candidates are visited in selector-list order, then DOM order, so
// dedup winners are deterministic. Seen keys are the upgraded URLs.
func HarvestImages(p Platform, html string, seen map[string]bool, budget int) []domain.ImageRecord {
	if budget <= 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var records []domain.ImageRecord
	for _, selector := range p.Selectors {
		if len(records) >= budget {
			break
		}
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if len(records) >= budget {
				return false
			}
			src := sel.AttrOr("src", "")
			if src == "" {
				src = sel.AttrOr("data-src", "")
			}
			if src == "" || !p.Accept(src) {
				return true
			}

			upgraded := src
			if p.Upgrade != nil {
				upgraded = p.Upgrade(src)
			}
			if seen[upgraded] {
				return true
			}
			seen[upgraded] = true

			rec := domain.ImageRecord{
				Platform: p.Name,
				URL:      upgraded,
				AltText:  truncate(sel.AttrOr("alt", ""), maxAltTextLen),
				Type:     p.Kind(upgraded),
				EstimatedQuality: EstimateQuality(upgraded,
					sel.AttrOr("width", p.DefaultWidth),
					sel.AttrOr("height", p.DefaultHeight)),
				ExtractedAt: time.Now().UTC(),
			}
			if upgraded != src {
				rec.OriginalURL = src
			}
			if p.VideoID != nil {
				rec.VideoID = p.VideoID(upgraded)
			}
			records = append(records, rec)
			return true
		})
	}
	return records
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// sleep pauses for d unless the context ends first. Returns false when the
// context is done.
func (s *Service) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
