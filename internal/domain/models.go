package domain

import "time"

// ImageRecord is a single harvested image URL. The URL field already carries
// the platform-specific quality upgrade and is the identity key for dedup.
type ImageRecord struct {
	Platform         string    `json:"platform"`
	URL              string    `json:"url"`
	OriginalURL      string    `json:"original_url,omitempty"`
	AltText          string    `json:"alt_text,omitempty"`
	Type             string    `json:"type"`
	EstimatedQuality float64   `json:"estimated_quality"`
	ExtractedAt      time.Time `json:"extracted_at"`
	VideoID          string    `json:"video_id,omitempty"`
}

// PlatformResult is the outcome of one platform extraction. Success means the
// requested minimum was met; Error is set only for page-level failures.
type PlatformResult struct {
	Platform string        `json:"platform"`
	Query    string        `json:"query"`
	Images   []ImageRecord `json:"images"`
	Count    int           `json:"count"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

// AggregateResult is the merged, deduplicated, quality-ranked output of a run.
type AggregateResult struct {
	Query                string                    `json:"query"`
	PlatformsData        map[string]PlatformResult `json:"platforms_data"`
	AllImages            []ImageRecord             `json:"all_images"`
	TotalImagesExtracted int                       `json:"total_images_extracted"`
	UniqueImages         int                       `json:"unique_images"`
	ExtractionStarted    time.Time                 `json:"extraction_started"`
	ExtractionCompleted  time.Time                 `json:"extraction_completed"`
}

// ScreenshotRecord is the per-URL outcome of a screenshot batch.
type ScreenshotRecord struct {
	URL            string     `json:"url"`
	ScreenshotPath string     `json:"screenshot_path,omitempty"`
	Index          int        `json:"index"`
	CapturedAt     *time.Time `json:"captured_at,omitempty"`
	Success        bool       `json:"success"`
	Error          string     `json:"error,omitempty"`
}

// ViralItem is the renamed view of an ImageRecord consumed by the viral
// content analyzer.
type ViralItem struct {
	Platform     string      `json:"platform"`
	Title        string      `json:"title"`
	ImageURL     string      `json:"image_url"`
	ThumbnailURL string      `json:"thumbnail_url"`
	ViralScore   float64     `json:"viral_score"`
	Type         string      `json:"type"`
	Metadata     ImageRecord `json:"metadata"`
}

// ViralContentResult adapts an AggregateResult for the viral analyzer.
type ViralContentResult struct {
	ViralContent  []ViralItem               `json:"viral_content"`
	PlatformsData map[string]PlatformResult `json:"platforms_data"`
	TotalContent  int                       `json:"total_content"`
}

// ExtractionRun mirrors the extraction_runs PostgreSQL table.
type ExtractionRun struct {
	ID        int64
	Query     string
	Platforms []string
	Result    *AggregateResult
	CreatedAt time.Time
}
