// Package scoring implements the anomaly scorer: six component scores
// combined into an overall, interpretable anomaly score (spec §4.7).
package scoring

import (
	"context"

	"dataprofiler/domain/profile"
	"dataprofiler/ports"
)

const (
	weightDataQuality  = 0.25
	weightNullRate     = 0.15
	weightOutliers     = 0.20
	weightDistribution = 0.15
	weightCardinality  = 0.10
	weightSchema       = 0.15
)

// Scorer implements ports.AnomalyScorer.
type Scorer struct{}

// NewScorer constructs an anomaly scorer.
func NewScorer() *Scorer { return &Scorer{} }

// Score combines the six weighted component scores into an overall score
// and a deterministic, rule-based set of recommendations (spec §4.7).
func (s *Scorer) Score(ctx context.Context, p *profile.DataProfile) (ports.AnomalyScoreResult, error) {
	components := ports.ComponentScores{
		DataQuality:  dataQualityScore(p),
		NullRate:     nullRateScore(p),
		Outliers:     outlierScore(p),
		Distribution: distributionScore(p),
		Cardinality:  cardinalityScore(p),
		Schema:       schemaScore(p),
	}

	overall := weightDataQuality*components.DataQuality +
		weightNullRate*components.NullRate +
		weightOutliers*components.Outliers +
		weightDistribution*components.Distribution +
		weightCardinality*components.Cardinality +
		weightSchema*components.Schema

	overall = clip01(overall)

	return ports.AnomalyScoreResult{
		OverallScore:    overall,
		Components:      components,
		Interpretation:  interpret(overall),
		Recommendations: recommendations(p, components),
	}, nil
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func interpret(score float64) ports.Interpretation {
	switch {
	case score < 0.1:
		return ports.InterpretationExcellent
	case score < 0.2:
		return ports.InterpretationGood
	case score < 0.35:
		return ports.InterpretationFair
	case score < 0.5:
		return ports.InterpretationConcerning
	case score < 0.7:
		return ports.InterpretationPoor
	default:
		return ports.InterpretationCritical
	}
}

func dataQualityScore(p *profile.DataProfile) float64 {
	if len(p.Columns) == 0 {
		return 0
	}
	errorCount, warnCount := 0, 0
	for _, a := range p.Alerts {
		switch a.Severity {
		case profile.SeverityError:
			errorCount++
		case profile.SeverityWarning:
			warnCount++
		}
	}
	weighted := float64(errorCount)*1.0 + float64(warnCount)*0.5
	return clip01(weighted / float64(len(p.Columns)))
}

func nullRateScore(p *profile.DataProfile) float64 {
	if len(p.Columns) == 0 {
		return 0
	}
	var sum, max float64
	var highNullCount int
	for _, c := range p.Columns {
		sum += c.NullPercent / 100
		if c.NullPercent/100 > max {
			max = c.NullPercent / 100
		}
		if c.NullPercent > 50 {
			highNullCount++
		}
	}
	avg := sum / float64(len(p.Columns))
	countFactor := float64(highNullCount) / float64(len(p.Columns))
	return clip01(0.5*avg + 0.3*max + 0.2*countFactor)
}

func outlierScore(p *profile.DataProfile) float64 {
	if p.RowCount == 0 {
		return 0
	}
	var totalOutliers int64
	for _, c := range p.Columns {
		totalOutliers += c.OutlierCount
	}
	return clip01(float64(totalOutliers) / float64(p.RowCount))
}

func distributionScore(p *profile.DataProfile) float64 {
	numericCols := 0
	flagged := 0.0
	for _, c := range p.Columns {
		if c.InferredType != profile.TypeNumeric {
			continue
		}
		numericCols++
		switch {
		case absf(c.Skewness) > 2 || absf(c.Kurtosis-3) > 10:
			flagged += 1.0
		case absf(c.Skewness) > 1 || absf(c.Kurtosis-3) > 3:
			flagged += 0.5
		}
	}
	if numericCols == 0 {
		return 0
	}
	return clip01(flagged / float64(numericCols))
}

func cardinalityScore(p *profile.DataProfile) float64 {
	if len(p.Columns) == 0 {
		return 0
	}
	flagged := 0
	for _, c := range p.Columns {
		if c.UniqueCount <= 1 {
			flagged++
		} else if c.UniquePercent > 99 && c.InferredType != profile.TypeID && !hasNaturalIdentifierPattern(c) {
			flagged++
		}
	}
	return clip01(float64(flagged) / float64(len(p.Columns)))
}

// hasNaturalIdentifierPattern reports whether a column's detected text
// pattern already explains near-total uniqueness (emails, UUIDs), so it
// isn't also double-counted as an anomalous near-unique column.
func hasNaturalIdentifierPattern(c profile.ColumnProfile) bool {
	for _, tp := range c.TextPatterns {
		if tp.Type == profile.PatternEmail || tp.Type == profile.PatternUUID {
			return true
		}
	}
	return false
}

func schemaScore(p *profile.DataProfile) float64 {
	if p.RowCount == 0 {
		return 0
	}
	widthScore := clip01(float64(p.ColumnCount) / 200.0)
	ratioScore := clip01(float64(p.ColumnCount) / float64(p.RowCount))
	return clip01(0.5*widthScore + 0.5*ratioScore)
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func recommendations(p *profile.DataProfile, c ports.ComponentScores) []string {
	var out []string
	if c.Cardinality > 0 {
		for _, col := range p.Columns {
			if col.UniqueCount <= 1 {
				out = append(out, "Remove constant columns before modeling")
				break
			}
		}
	}
	if c.NullRate > 0.3 {
		out = append(out, "Investigate columns with high null rates before downstream use")
	}
	if c.Outliers > 0.2 {
		out = append(out, "Review outlier handling strategy for numeric columns")
	}
	if c.Schema > 0.5 {
		out = append(out, "Consider reducing column count relative to row count")
	}
	if c.Distribution > 0.3 {
		out = append(out, "Apply a transform to heavily skewed numeric columns")
	}
	return out
}
