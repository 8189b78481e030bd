// Package numerics computes the shared numeric summary statistics used by
// column profiling, fidelity scoring, and query result aggregation.
package numerics

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Summary holds the core numeric aggregates for a sample.
type Summary struct {
	Count        int
	Min          float64
	Max          float64
	Mean         float64
	StdDev       float64
	Median       float64
	Q25          float64
	Q75          float64
	IQR          float64
	MAD          float64
	Skewness     float64
	Kurtosis     float64
	OutlierCount int64
}

// Summarize computes a Summary over data. It returns ok=false when data is
// empty; skewness and kurtosis are left at zero when sample size is too
// small for a stable estimate (matching the degrees-of-freedom guards
// below).
func Summarize(data []float64, skipHighOrderMoments bool) (Summary, bool) {
	if len(data) == 0 {
		return Summary{}, false
	}

	mean, _ := stats.Mean(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median, _ := stats.Median(data)
	q25, _ := stats.Percentile(data, 25)
	q75, _ := stats.Percentile(data, 75)

	var stdDev float64
	if len(data) > 1 {
		stdDev, _ = stats.StandardDeviation(data)
	}

	iqr := q75 - q25
	mad := medianAbsoluteDeviation(data, median)

	var skewness, kurtosis float64
	if !skipHighOrderMoments && stdDev > 0 {
		skewness = Skewness(data, mean, stdDev)
		kurtosis = Kurtosis(data, mean, stdDev)
	}

	outliers := int64(0)
	if iqr > 0 {
		lower := q25 - 1.5*iqr
		upper := q75 + 1.5*iqr
		for _, v := range data {
			if v < lower || v > upper {
				outliers++
			}
		}
	}

	return Summary{
		Count:        len(data),
		Min:          min,
		Max:          max,
		Mean:         mean,
		StdDev:       stdDev,
		Median:       median,
		Q25:          q25,
		Q75:          q75,
		IQR:          iqr,
		MAD:          mad,
		Skewness:     skewness,
		Kurtosis:     kurtosis,
		OutlierCount: outliers,
	}, true
}

// Skewness computes the bias-corrected Fisher-Pearson sample skewness.
func Skewness(data []float64, mean, stdDev float64) float64 {
	n := float64(len(data))
	if n < 3 || stdDev == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}

	skew := sum / n
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skew * correction
}

// Kurtosis computes the bias-corrected sample kurtosis (not excess).
func Kurtosis(data []float64, mean, stdDev float64) float64 {
	n := float64(len(data))
	if n < 4 || stdDev == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}

	kurt := sum/n - 3
	correction := (n - 1) / ((n - 2) * (n - 3))
	kurt = ((n+1)*kurt + 6) * correction
	return kurt + 3
}

func medianAbsoluteDeviation(data []float64, median float64) float64 {
	deviations := make([]float64, len(data))
	for i, v := range data {
		deviations[i] = math.Abs(v - median)
	}
	m, _ := stats.Median(deviations)
	return m
}

// LinearRegression fits y = slope*x + intercept and returns the R-squared.
func LinearRegression(xs, ys []float64) (slope, intercept, rSquared float64) {
	n := float64(len(xs))
	if n < 2 {
		return 0, 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i := range xs {
		pred := slope*xs[i] + intercept
		ssRes += (ys[i] - pred) * (ys[i] - pred)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 0
	}
	rSquared = 1 - ssRes/ssTot
	return slope, intercept, rSquared
}

// Autocorrelation computes the lag-k autocorrelation of data.
func Autocorrelation(data []float64, lag int) float64 {
	n := len(data)
	if lag <= 0 || lag >= n {
		return 0
	}

	mean, _ := stats.Mean(data)

	var num, den float64
	for i := 0; i < n; i++ {
		den += (data[i] - mean) * (data[i] - mean)
	}
	for i := 0; i < n-lag; i++ {
		num += (data[i] - mean) * (data[i+lag] - mean)
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Entropy computes Shannon entropy (base 2, bits) of a frequency distribution.
func Entropy(counts []int64, total int64) float64 {
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}
