// Package segment computes profile centroid vectors and segment-to-segment
// comparisons for drift and similarity analysis (spec §4.8).
package segment

import (
	"context"
	"math"
	"sort"

	"dataprofiler/adapters/numerics"
	"dataprofiler/domain/profile"
	"dataprofiler/ports"
)

// Profiler implements ports.SegmentProfiler.
type Profiler struct{}

// NewProfiler constructs a segment profiler.
func NewProfiler() *Profiler { return &Profiler{} }

// Centroid emits a flat vector summarizing a profile: dataset-level scale
// terms followed by per-column terms in column-name order (spec §4.8).
func (s *Profiler) Centroid(ctx context.Context, p *profile.DataProfile) ([]float64, error) {
	return buildCentroid(p), nil
}

func buildCentroid(p *profile.DataProfile) []float64 {
	columns := append([]profile.ColumnProfile(nil), p.Columns...)
	sort.Slice(columns, func(i, j int) bool { return columns[i].Name < columns[j].Name })

	vec := []float64{
		math.Log10(float64(p.RowCount) + 1),
		float64(p.ColumnCount) / 100.0,
	}

	for _, c := range columns {
		vec = append(vec, columnCentroidTerms(c)...)
	}
	return vec
}

// columnCentroidTerms returns (null_rate, unique_rate, type-one-hot[3],
// normalized_center, normalized_skewness, mode_freq, normalized_entropy).
func columnCentroidTerms(c profile.ColumnProfile) []float64 {
	nullRate := c.NullPercent / 100
	uniqueRate := c.UniquePercent / 100

	oneHot := typeOneHot(c.InferredType)

	normalizedCenter := 0.0
	normalizedSkewness := 0.0
	if c.InferredType == profile.TypeNumeric {
		if rng := c.Max - c.Min; rng > 0 {
			normalizedCenter = (c.Mean - c.Min) / rng
		}
		normalizedSkewness = clamp(c.Skewness/10, -1, 1)
	} else if c.InferredType == profile.TypeDateTime {
		normalizedCenter = 0.5
	}

	modeFreq := 0.0
	if len(c.TopValues) > 0 {
		modeFreq = c.TopValues[0].Percent / 100
	}

	normalizedEntropy := 0.0
	if c.InferredType == profile.TypeCategorical && c.UniqueCount > 1 {
		maxEntropy := math.Log2(float64(c.UniqueCount))
		if maxEntropy > 0 {
			normalizedEntropy = c.Entropy / maxEntropy
		}
	}

	return []float64{
		nullRate, uniqueRate,
		oneHot[0], oneHot[1], oneHot[2],
		normalizedCenter, normalizedSkewness, modeFreq, normalizedEntropy,
	}
}

func typeOneHot(t profile.InferredType) [3]float64 {
	switch t {
	case profile.TypeNumeric:
		return [3]float64{1, 0, 0}
	case profile.TypeCategorical, profile.TypeBoolean, profile.TypeID:
		return [3]float64{0, 1, 0}
	case profile.TypeDateTime:
		return [3]float64{0, 0, 1}
	default:
		return [3]float64{0, 0, 0}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CentroidDistance is a thin wrapper retained for callers outside this
// package (the profile store's centroid index).
func CentroidDistance(a, b []float64) float64 {
	return numerics.EuclideanDistance(a, b)
}
