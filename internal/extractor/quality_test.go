package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/social-extractor/internal/extractor"
)

func TestEstimateQualityIsIdempotent(t *testing.T) {
	url := "https://i.ytimg.com/vi/abc123/hqdefault.jpg"
	first := extractor.EstimateQuality(url, "1280", "720")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, extractor.EstimateQuality(url, "1280", "720"))
	}
}

func TestEstimateQualityTierOrdering(t *testing.T) {
	maxres := extractor.EstimateQuality("https://i.ytimg.com/vi/abc/maxresdefault.jpg", "", "")
	hq := extractor.EstimateQuality("https://i.ytimg.com/vi/abc/hqdefault.jpg", "", "")
	mq := extractor.EstimateQuality("https://i.ytimg.com/vi/abc/mqdefault.jpg", "", "")
	low := extractor.EstimateQuality("https://i.ytimg.com/vi/abc/default.jpg", "", "")
	plain := extractor.EstimateQuality("https://cdn.example.com/a/b/c.jpg", "", "")

	assert.GreaterOrEqual(t, maxres, hq)
	assert.GreaterOrEqual(t, hq, mq)
	assert.GreaterOrEqual(t, mq, low)
	assert.GreaterOrEqual(t, low, plain)
	assert.Greater(t, maxres, plain)
}

func TestEstimateQualityDimensionBonus(t *testing.T) {
	url := "https://cdn.example.com/photo.jpg"
	none := extractor.EstimateQuality(url, "", "")
	sd := extractor.EstimateQuality(url, "640", "480")
	hd := extractor.EstimateQuality(url, "1280", "720")
	fullHD := extractor.EstimateQuality(url, "1920", "1080")

	assert.Greater(t, sd, none)
	assert.Greater(t, hd, sd)
	assert.Greater(t, fullHD, hd)
}

func TestEstimateQualityMalformedDimensionsIgnored(t *testing.T) {
	url := "https://cdn.example.com/photo.jpg"
	assert.Equal(t,
		extractor.EstimateQuality(url, "", ""),
		extractor.EstimateQuality(url, "wide", "tall"))
	assert.Equal(t,
		extractor.EstimateQuality(url, "", ""),
		extractor.EstimateQuality(url, "1280", "not-a-number"))
}

func TestEstimateQualityClampedToOne(t *testing.T) {
	score := extractor.EstimateQuality("https://i.pinimg.com/originals/photo.jpg", "1920", "1080")
	assert.Equal(t, 1.0, score)
}

func TestEstimateQualityRange(t *testing.T) {
	urls := []string{
		"",
		"https://i.ytimg.com/vi/abc/maxresdefault.jpg",
		"https://pbs.twimg.com/media/xyz?format=jpg&name=orig",
		"https://cdn.example.com/1080/720/480/photo.jpg",
	}
	for _, u := range urls {
		score := extractor.EstimateQuality(u, "99999", "99999")
		assert.GreaterOrEqual(t, score, 0.0, u)
		assert.LessOrEqual(t, score, 1.0, u)
	}
}
