// Package fidelity compares a synthetic profile against its source profile,
// scoring how faithfully the synthetic data preserves statistical structure
// (spec §4.8).
package fidelity

import (
	"context"

	"dataprofiler/adapters/numerics"
	"dataprofiler/domain/profile"
	"dataprofiler/ports"
)

const uniquenessComplianceThreshold = 0.02

// Validator implements ports.FidelityValidator.
type Validator struct{}

// NewValidator constructs a fidelity validator.
func NewValidator() *Validator { return &Validator{} }

// Validate scores a synthetic profile against its original, column by
// column, then rolls the result up into an overall percentage (spec §4.8).
func (v *Validator) Validate(ctx context.Context, original, synthetic *profile.DataProfile) (ports.FidelityReport, error) {
	synByName := make(map[string]*profile.ColumnProfile, len(synthetic.Columns))
	for i := range synthetic.Columns {
		synByName[synthetic.Columns[i].Name] = &synthetic.Columns[i]
	}

	var scores []ports.ColumnFidelity
	var sum float64

	for i := range original.Columns {
		orig := &original.Columns[i]
		syn, ok := synByName[orig.Name]
		if !ok {
			continue
		}
		cf := columnFidelity(orig, syn)
		scores = append(scores, cf)
		sum += cf.Score
	}

	var columnAvg float64
	if len(scores) > 0 {
		columnAvg = sum / float64(len(scores))
	}

	relationshipScore := relationshipFidelity(original, synthetic)
	privacy := privacyCompliance(synthetic)

	overall := (columnAvg + relationshipScore + privacy) / 3 * 100

	return ports.FidelityReport{
		OverallScorePercent: overall,
		ColumnScores:        scores,
		RelationshipScore:   relationshipScore,
		PrivacyCompliance:   privacy,
	}, nil
}

func columnFidelity(orig, syn *profile.ColumnProfile) ports.ColumnFidelity {
	cf := ports.ColumnFidelity{
		Column:        orig.Name,
		NullRateDelta: absf(orig.NullPercent-syn.NullPercent) / 100,
	}

	var penalty float64
	components := 1
	penalty += cf.NullRateDelta

	if orig.InferredType == profile.TypeNumeric && orig.HasNumeric {
		cf.MeanDelta = zNormalizedDelta(orig.Mean, syn.Mean, orig.StdDev)
		cf.StdDelta = relativeDelta(orig.StdDev, syn.StdDev)
		cf.QuantileDelta = quantileDelta(orig, syn)
		cf.KSProxy = ksProxy(orig, syn)
		penalty += cf.MeanDelta + cf.StdDelta + cf.QuantileDelta + cf.KSProxy
		components += 4
	} else if orig.InferredType == profile.TypeCategorical {
		origDist := topValueDist(orig)
		synDist := topValueDist(syn)
		cf.PSI = numerics.PSI(origDist, synDist)
		cf.JSDivergence = numerics.JensenShannon(origDist, synDist)
		cf.TopKOverlap = topKOverlap(orig, syn)
		penalty += clamp01(cf.PSI) + cf.JSDivergence + (1 - cf.TopKOverlap)
		components += 3
	}

	cf.Score = clamp01(1 - penalty/float64(components))
	return cf
}

func zNormalizedDelta(origMean, synMean, origStdDev float64) float64 {
	if origStdDev == 0 {
		return 0
	}
	return clamp01(absf(origMean-synMean) / origStdDev)
}

func relativeDelta(orig, syn float64) float64 {
	if orig == 0 {
		return 0
	}
	return clamp01(absf(orig-syn) / absf(orig))
}

func quantileDelta(orig, syn *profile.ColumnProfile) float64 {
	if orig.IQR == 0 {
		return 0
	}
	q25Delta := absf(orig.Q25 - syn.Q25)
	q75Delta := absf(orig.Q75 - syn.Q75)
	medianDelta := absf(orig.Median - syn.Median)
	return clamp01((q25Delta + q75Delta + medianDelta) / (3 * orig.IQR))
}

func ksProxy(orig, syn *profile.ColumnProfile) float64 {
	if orig.IQR == 0 {
		return 0
	}
	q25Delta := absf(orig.Q25-syn.Q25) / orig.IQR
	medianDelta := absf(orig.Median-syn.Median) / orig.IQR
	q75Delta := absf(orig.Q75-syn.Q75) / orig.IQR
	return clamp01((q25Delta + medianDelta + q75Delta) / 3)
}

func topValueDist(c *profile.ColumnProfile) map[string]float64 {
	dist := make(map[string]float64, len(c.TopValues))
	for _, tv := range c.TopValues {
		dist[tv.Value] = tv.Percent / 100
	}
	return dist
}

func topKOverlap(orig, syn *profile.ColumnProfile) float64 {
	origSet := make(map[string]bool, len(orig.TopValues))
	for _, tv := range orig.TopValues {
		origSet[tv.Value] = true
	}
	if len(origSet) == 0 {
		return 1
	}
	overlap := 0
	for _, tv := range syn.TopValues {
		if origSet[tv.Value] {
			overlap++
		}
	}
	return clamp01(float64(overlap) / float64(len(origSet)))
}

// relationshipFidelity approximates preservation of inter-column structure
// by comparing the correlation pairs both profiles report.
func relationshipFidelity(orig, syn *profile.DataProfile) float64 {
	if len(orig.Correlations) == 0 {
		return 1
	}
	synByPair := make(map[[2]string]float64, len(syn.Correlations))
	for _, c := range syn.Correlations {
		synByPair[pairKey(c.Col1, c.Col2)] = c.Correlation
	}

	var sum float64
	for _, c := range orig.Correlations {
		synCorr, ok := synByPair[pairKey(c.Col1, c.Col2)]
		if !ok {
			continue
		}
		sum += 1 - clamp01(absf(c.Correlation-synCorr)/2)
	}
	return clamp01(sum / float64(len(orig.Correlations)))
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// privacyCompliance passes (1.0) unless the synthetic profile reproduces
// near-unique identifier columns, which would indicate memorized records
// rather than synthesized ones.
func privacyCompliance(synthetic *profile.DataProfile) float64 {
	for _, c := range synthetic.Columns {
		if c.InferredType == profile.TypeID {
			continue
		}
		if c.UniquePercent/100 > (1 - uniquenessComplianceThreshold) {
			return 0.8
		}
	}
	return 1.0
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
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
