package monitoring_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/user/social-extractor/internal/monitoring"
)

func TestObserveExtraction(t *testing.T) {
	m := monitoring.NewMetrics(prometheus.NewRegistry())

	m.ObserveExtraction("youtube", "success", 12, 3*time.Second)
	m.ObserveExtraction("youtube", "success", 8, 2*time.Second)
	m.ObserveExtraction("facebook", "error", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("youtube", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("facebook", "error")))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.ImagesExtracted.WithLabelValues("youtube")))
}

func TestIncCounters(t *testing.T) {
	m := monitoring.NewMetrics(prometheus.NewRegistry())

	m.IncScreenshot("success")
	m.IncScreenshot("failure")
	m.IncError("db_save_failed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScreenshotsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScreenshotsTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("db_save_failed")))
}

func TestSeparateRegistries(t *testing.T) {
	// Two instances on private registries never collide.
	assert.NotPanics(t, func() {
		monitoring.NewMetrics(prometheus.NewRegistry())
		monitoring.NewMetrics(prometheus.NewRegistry())
	})
}
