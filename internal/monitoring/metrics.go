package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	ImagesExtracted    *prometheus.CounterVec
	ScreenshotsTotal   *prometheus.CounterVec
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics registers the application metrics on the given registerer.
// Tests pass a private registry to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ExtractionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_platform_extractions_total",
			Help: "The total number of per-platform extraction attempts",
		}, []string{"platform", "status"}), // status: success, partial, error
		ExtractionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "extractor_platform_extraction_duration_seconds",
			Help:    "Duration of per-platform extractions",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		}, []string{"platform"}),
		ImagesExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_images_extracted_total",
			Help: "The total number of image URLs harvested",
		}, []string{"platform"}),
		ScreenshotsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_screenshots_total",
			Help: "The total number of screenshot captures",
		}, []string{"status"}), // status: success, failure
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g. 'db_save_failed', 'cache_failed'
	}
}

// ObserveExtraction records the outcome of one platform extraction.
func (m *Metrics) ObserveExtraction(platform, status string, images int, d time.Duration) {
	m.ExtractionsTotal.WithLabelValues(platform, status).Inc()
	m.ExtractionDuration.WithLabelValues(platform).Observe(d.Seconds())
	m.ImagesExtracted.WithLabelValues(platform).Add(float64(images))
}

// IncScreenshot records one screenshot capture outcome.
func (m *Metrics) IncScreenshot(status string) {
	m.ScreenshotsTotal.WithLabelValues(status).Inc()
}

// IncError records an internal error by type.
func (m *Metrics) IncError(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
