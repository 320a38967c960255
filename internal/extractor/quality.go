package extractor

import (
	"math"
	"strconv"
	"strings"
)

// Quality weights are heuristics tuned by observation, not measurement.
// Rankings produced with them are only meaningful relative to each other.
const (
	baseQuality     = 0.5
	tierTopBonus    = 0.4
	tierHighBonus   = 0.3
	tierMediumBonus = 0.2
	tierLowBonus    = 0.1

	areaFullHDBonus = 0.3
	areaHDBonus     = 0.2
	areaSDBonus     = 0.1
)

// EstimateQuality scores an image URL in [0,1] from resolution markers
// embedded in the URL plus optionally declared pixel dimensions. It is
// deterministic and side-effect free; malformed dimension strings are
// ignored.
func EstimateQuality(url, width, height string) float64 {
	score := baseQuality

	switch {
	case strings.Contains(url, "maxresdefault") || strings.Contains(url, "originals"):
		score += tierTopBonus
	case strings.Contains(url, "hqdefault") || strings.Contains(url, "1080") || strings.Contains(url, "720"):
		score += tierHighBonus
	case strings.Contains(url, "mqdefault") || strings.Contains(url, "480"):
		score += tierMediumBonus
	case strings.Contains(url, "default") || strings.Contains(url, "360") || strings.Contains(url, "240"):
		score += tierLowBonus
	}

	if w, errW := strconv.Atoi(width); errW == nil {
		if h, errH := strconv.Atoi(height); errH == nil {
			pixels := w * h
			switch {
			case pixels >= 1920*1080:
				score += areaFullHDBonus
			case pixels >= 1280*720:
				score += areaHDBonus
			case pixels >= 640*480:
				score += areaSDBonus
			}
		}
	}

	return math.Min(score, 1.0)
}
