package extractor

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/user/social-extractor/internal/domain"
)

// ExtractImagesFromAllPlatforms runs each requested platform extractor in
// order, merging the results into a single deduplicated, quality-ranked
// collection. Unknown platform names yield an empty result instead of
// aborting; a failing platform degrades to its own error entry and the run
// continues. On context cancellation the work completed so far is returned
// alongside the context error.
func (s *Service) ExtractImagesFromAllPlatforms(ctx context.Context, query string, platformNames []string, minImages int) (*domain.AggregateResult, error) {
	if len(platformNames) == 0 {
		platformNames = DefaultPlatformNames()
	}
	if minImages <= 0 {
		minImages = s.cfg.MinImagesPerPlatform
	}

	s.logger.Info("starting extraction",
		zap.String("query", query), zap.Strings("platforms", platformNames))

	result := &domain.AggregateResult{
		Query:             query,
		PlatformsData:     make(map[string]domain.PlatformResult, len(platformNames)),
		AllImages:         []domain.ImageRecord{},
		ExtractionStarted: time.Now().UTC(),
	}

	seen := make(map[string]bool)
	total := 0
	var runErr error

	for i, name := range platformNames {
		var pr domain.PlatformResult
		p, ok := PlatformByName(name)
		if !ok {
			s.logger.Warn("unsupported platform", zap.String("platform", name))
			pr = domain.PlatformResult{Platform: name, Query: query, Images: []domain.ImageRecord{}}
		} else {
			start := time.Now()
			pr = s.extractPlatform(ctx, p, query, minImages)
			s.metrics.ObserveExtraction(name, extractionStatus(pr), pr.Count, time.Since(start))
		}

		result.PlatformsData[name] = pr
		total += pr.Count

		// First platform to produce a URL wins; later duplicates are dropped.
		for _, img := range pr.Images {
			if seen[img.URL] {
				continue
			}
			seen[img.URL] = true
			result.AllImages = append(result.AllImages, img)
		}

		if i < len(platformNames)-1 {
			// Throttle between platforms to stay under anti-bot rate limits.
			if !s.sleep(ctx, s.cfg.RequestDelay) {
				runErr = ctx.Err()
				break
			}
		}
	}

	// Stable sort keeps first-seen order among equal scores.
	sort.SliceStable(result.AllImages, func(i, j int) bool {
		return result.AllImages[i].EstimatedQuality > result.AllImages[j].EstimatedQuality
	})

	result.TotalImagesExtracted = total
	result.UniqueImages = len(result.AllImages)
	result.ExtractionCompleted = time.Now().UTC()

	s.logger.Info("extraction finished",
		zap.String("query", query),
		zap.Int("total_images", result.TotalImagesExtracted),
		zap.Int("unique_images", result.UniqueImages))

	return result, runErr
}

// ExtractViralContent is a field-renaming adapter over
// ExtractImagesFromAllPlatforms for the viral content analyzer.
func (s *Service) ExtractViralContent(ctx context.Context, query string, platformNames []string, maxItems int) (*domain.ViralContentResult, error) {
	if maxItems <= 0 {
		maxItems = 50
	}
	agg, err := s.ExtractImagesFromAllPlatforms(ctx, query, platformNames, maxItems)
	if agg == nil {
		return nil, err
	}

	items := make([]domain.ViralItem, 0, len(agg.AllImages))
	for _, img := range agg.AllImages {
		title := img.AltText
		if title == "" {
			title = "Viral content"
		}
		items = append(items, domain.ViralItem{
			Platform:     img.Platform,
			Title:        title,
			ImageURL:     img.URL,
			ThumbnailURL: img.URL,
			ViralScore:   img.EstimatedQuality,
			Type:         img.Type,
			Metadata:     img,
		})
	}

	return &domain.ViralContentResult{
		ViralContent:  items,
		PlatformsData: agg.PlatformsData,
		TotalContent:  len(items),
	}, err
}

func extractionStatus(pr domain.PlatformResult) string {
	switch {
	case pr.Error != "":
		return "error"
	case pr.Success:
		return "success"
	default:
		return "partial"
	}
}
