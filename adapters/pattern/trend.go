package pattern

import (
	"dataprofiler/adapters/numerics"
	"dataprofiler/domain/profile"
)

// DetectTrend fits a simple linear regression of values against either
// days-since-min-date (when daysSinceAnchor is non-nil) or row order, and
// reports a direction per the spec §4.2 thresholds.
func DetectTrend(values []float64, daysSinceAnchor []float64) *profile.Trend {
	if len(values) < 3 {
		return nil
	}

	xs := daysSinceAnchor
	if xs == nil {
		xs = make([]float64, len(values))
		for i := range xs {
			xs[i] = float64(i)
		}
	}

	slope, _, rSquared := numerics.LinearRegression(xs, values)

	hasDateAnchor := daysSinceAnchor != nil
	var direction profile.TrendDirection
	switch {
	case hasDateAnchor && (rSquared > 0.3 || absf(slope) > 0.001):
		direction = directionOf(slope)
	case !hasDateAnchor && rSquared > 0.5:
		direction = directionOf(slope)
	default:
		direction = profile.TrendNone
	}

	return &profile.Trend{Direction: direction, Slope: slope, RSquared: rSquared}
}

func directionOf(slope float64) profile.TrendDirection {
	if slope > 0 {
		return profile.TrendIncreasing
	}
	if slope < 0 {
		return profile.TrendDecreasing
	}
	return profile.TrendNone
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
