package segment

import (
	"context"
	"time"

	"dataprofiler/adapters/numerics"
	"dataprofiler/domain/profile"
	"dataprofiler/ports"
)

const missingColumnPenaltyWeight = 0.2

// Compare produces a per-column and overall segment comparison between two
// profiles (spec §4.8).
func (s *Profiler) Compare(ctx context.Context, a, b *profile.DataProfile) (ports.SegmentComparison, error) {
	bByName := make(map[string]*profile.ColumnProfile, len(b.Columns))
	for i := range b.Columns {
		bByName[b.Columns[i].Name] = &b.Columns[i]
	}

	var distances []ports.ColumnDistance
	var missing []string
	var sum float64

	for i := range a.Columns {
		colA := &a.Columns[i]
		colB, ok := bByName[colA.Name]
		if !ok {
			missing = append(missing, colA.Name)
			continue
		}
		d := columnDistance(colA, colB)
		distances = append(distances, ports.ColumnDistance{Column: colA.Name, Distance: d})
		sum += d
	}

	var avg float64
	if len(distances) > 0 {
		avg = sum / float64(len(distances))
	}

	missingPenalty := missingColumnPenaltyWeight * float64(len(missing)) / float64(max(1, len(a.Columns)))
	segmentDistance := clamp(avg+missingPenalty, 0, 1)

	return ports.SegmentComparison{
		SegmentDistance: segmentDistance,
		ColumnDistances: distances,
		MissingColumns:  missing,
	}, nil
}

func columnDistance(a, b *profile.ColumnProfile) float64 {
	nullDelta := absf(a.NullPercent-b.NullPercent) / 100
	uniqueDelta := absf(a.UniquePercent-b.UniquePercent) / 100

	var typeSpecific float64
	switch a.InferredType {
	case profile.TypeNumeric:
		typeSpecific = numericColumnDistance(a, b)
	case profile.TypeCategorical:
		typeSpecific = categoricalColumnDistance(a, b)
	case profile.TypeDateTime:
		typeSpecific = dateColumnDistance(a, b)
	}

	return clamp((nullDelta+typeSpecific)/2+uniqueDelta*0.5, 0, 1)
}

func numericColumnDistance(a, b *profile.ColumnProfile) float64 {
	centerA, centerB := 0.0, 0.0
	if rng := a.Max - a.Min; rng > 0 {
		centerA = (a.Mean - a.Min) / rng
	}
	if rng := b.Max - b.Min; rng > 0 {
		centerB = (b.Mean - b.Min) / rng
	}
	centerDelta := absf(centerA - centerB)

	cvA, cvB := cv(a), cv(b)
	cvDelta := absf(cvA - cvB)

	skewDelta := absf(a.Skewness-b.Skewness) / 10

	return clamp((centerDelta+cvDelta+skewDelta)/3, 0, 1)
}

func cv(c *profile.ColumnProfile) float64 {
	if c.Mean == 0 {
		return 0
	}
	return c.StdDev / absf(c.Mean)
}

func categoricalColumnDistance(a, b *profile.ColumnProfile) float64 {
	modeFreqA, modeFreqB := 0.0, 0.0
	if len(a.TopValues) > 0 {
		modeFreqA = a.TopValues[0].Percent / 100
	}
	if len(b.TopValues) > 0 {
		modeFreqB = b.TopValues[0].Percent / 100
	}
	modeDelta := absf(modeFreqA - modeFreqB)

	jsd := numerics.JensenShannon(topValueDist(a), topValueDist(b))

	cardA, cardB := float64(a.UniqueCount), float64(b.UniqueCount)
	var cardDelta float64
	if maxc := maxf(cardA, cardB); maxc > 0 {
		cardDelta = absf(cardA-cardB) / maxc
	}

	return clamp((modeDelta+jsd+cardDelta)/3, 0, 1)
}

func topValueDist(c *profile.ColumnProfile) map[string]float64 {
	dist := make(map[string]float64, len(c.TopValues))
	for _, tv := range c.TopValues {
		dist[tv.Value] = tv.Percent / 100
	}
	return dist
}

func dateColumnDistance(a, b *profile.ColumnProfile) float64 {
	if !a.HasDateRange || !b.HasDateRange {
		return 1
	}
	aMin, aMax := a.MinDate.Time(), a.MaxDate.Time()
	bMin, bMax := b.MinDate.Time(), b.MaxDate.Time()

	overlapStart := maxTime(aMin, bMin)
	overlapEnd := minTime(aMax, bMax)
	if overlapEnd.Before(overlapStart) {
		return 1
	}
	overlap := overlapEnd.Sub(overlapStart)

	unionStart := minTime(aMin, bMin)
	unionEnd := maxTime(aMax, bMax)
	union := unionEnd.Sub(unionStart)
	if union <= 0 {
		return 0
	}

	return clamp(1-float64(overlap)/float64(union), 0, 1)
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

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
