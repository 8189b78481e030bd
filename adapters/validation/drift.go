// Package validation implements the simple column-delta drift comparison
// used to flag when a dataset has moved away from its stored baseline
// (spec §4.9, GLOSSARY "Drift").
package validation

import (
	"context"

	"dataprofiler/adapters/numerics"
	"dataprofiler/domain/profile"
	"dataprofiler/ports"
)

const (
	numericMeanWeight  = 0.65
	numericStdWeight   = 0.20
	numericQuantWeight = 0.15
)

// Service implements ports.ValidationService.
type Service struct{}

// NewService constructs a drift validation service.
func NewService() *Service { return &Service{} }

// Drift compares a baseline and current profile sharing a schema and reports
// a per-column and overall drift score via PSI, JS divergence, and quantile
// deltas.
func (s *Service) Drift(ctx context.Context, baseline, current *profile.DataProfile) (ports.DriftResult, error) {
	curByName := make(map[string]*profile.ColumnProfile, len(current.Columns))
	for i := range current.Columns {
		curByName[current.Columns[i].Name] = &current.Columns[i]
	}

	drifts := make(map[string]float64, len(baseline.Columns))
	var sum float64
	var n int

	for i := range baseline.Columns {
		base := &baseline.Columns[i]
		cur, ok := curByName[base.Name]
		if !ok {
			continue
		}
		d := columnDrift(base, cur)
		drifts[base.Name] = d
		sum += d
		n++
	}

	var overall float64
	if n > 0 {
		overall = sum / float64(n)
	}

	return ports.DriftResult{DriftScore: overall, ColumnDrifts: drifts}, nil
}

func columnDrift(base, cur *profile.ColumnProfile) float64 {
	nullDelta := absf(base.NullPercent-cur.NullPercent) / 100

	var typeSpecific float64
	switch base.InferredType {
	case profile.TypeNumeric:
		typeSpecific = numericDrift(base, cur)
	case profile.TypeCategorical:
		typeSpecific = categoricalDrift(base, cur)
	}

	return maxf(nullDelta, typeSpecific)
}

func numericDrift(base, cur *profile.ColumnProfile) float64 {
	meanZ := 0.0
	if base.StdDev != 0 {
		meanZ = clamp01(absf(base.Mean-cur.Mean) / base.StdDev)
	}

	stdRel := 0.0
	if base.StdDev != 0 {
		stdRel = clamp01(absf(base.StdDev-cur.StdDev) / base.StdDev)
	}

	quant := 0.0
	if base.IQR != 0 {
		quant = clamp01(absf(base.Median-cur.Median) / base.IQR)
	}

	return clamp01(numericMeanWeight*meanZ + numericStdWeight*stdRel + numericQuantWeight*quant)
}

func categoricalDrift(base, cur *profile.ColumnProfile) float64 {
	baseDist := topValueDist(base)
	curDist := topValueDist(cur)

	psi := clamp01(numerics.PSI(baseDist, curDist))
	js := numerics.JensenShannon(baseDist, curDist)

	return clamp01(0.5*psi + 0.5*js)
}

func topValueDist(c *profile.ColumnProfile) map[string]float64 {
	dist := make(map[string]float64, len(c.TopValues))
	for _, tv := range c.TopValues {
		dist[tv.Value] = tv.Percent / 100
	}
	return dist
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
