package pattern

import (
	"math"

	"dataprofiler/domain/profile"
)

// ClassifyDistribution applies the spec §4.2 decision table to a column's
// already-computed moments and a coarse histogram. It requires std_dev > 0.
func ClassifyDistribution(stdDev, skewness, kurtosis, min, max, iqr float64, histogram []int64) profile.Distribution {
	if stdDev <= 0 {
		return profile.DistUnknown
	}

	valueRange := max - min
	var iqrRatio float64
	if valueRange > 0 {
		iqrRatio = iqr / valueRange
	}

	switch {
	case math.Abs(skewness) < 0.5 && math.Abs(kurtosis-3) < 1:
		return profile.DistNormal
	case kurtosis < 2 && iqrRatio > 0.4 && iqrRatio < 0.6:
		return profile.DistUniform
	case skewness > 2 && kurtosis > 10:
		return profile.DistPowerLaw
	case skewness > 0.5 && kurtosis > 6:
		return profile.DistExponential
	case skewness > 1:
		return profile.DistRightSkewed
	case skewness < -1:
		return profile.DistLeftSkewed
	case isBimodal(histogram):
		return profile.DistBimodal
	default:
		return profile.DistUnknown
	}
}

// Histogram buckets data into n equal-width buckets over [min, max].
func Histogram(data []float64, min, max float64, n int) []int64 {
	buckets := make([]int64, n)
	if max <= min || n == 0 {
		return buckets
	}
	width := (max - min) / float64(n)
	for _, v := range data {
		idx := int((v - min) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		buckets[idx]++
	}
	return buckets
}

// isBimodal reports whether the histogram has at least two strict local
// maxima (spec §4.2).
func isBimodal(histogram []int64) bool {
	peaks := 0
	for i := range histogram {
		left := i == 0 || histogram[i] > histogram[i-1]
		right := i == len(histogram)-1 || histogram[i] > histogram[i+1]
		if left && right && histogram[i] > 0 {
			peaks++
		}
	}
	return peaks >= 2
}
