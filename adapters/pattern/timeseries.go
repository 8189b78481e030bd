package pattern

import (
	"sort"
	"time"

	"dataprofiler/adapters/numerics"
	"dataprofiler/domain/profile"
)

// DetectTimeSeries infers granularity and gap behavior for a DateTime
// column's sorted timestamps (spec §4.2).
func DetectTimeSeries(timestamps []time.Time) *profile.TimeSeries {
	if len(timestamps) < 2 {
		return nil
	}

	sorted := append([]time.Time(nil), timestamps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	diffs := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		diffs = append(diffs, sorted[i].Sub(sorted[i-1]).Seconds())
	}

	medianDiff, _ := medianOf(diffs)
	granularity, bucket := granularityFor(medianDiff)

	expectedPeriods := int(sorted[len(sorted)-1].Sub(sorted[0]) / bucket)
	if expectedPeriods < 1 {
		expectedPeriods = 1
	}

	distinctPeriods := make(map[int64]struct{})
	for _, t := range sorted {
		distinctPeriods[t.Truncate(bucket).Unix()] = struct{}{}
	}

	gapCount := expectedPeriods + 1 - len(distinctPeriods)
	if gapCount < 0 {
		gapCount = 0
	}
	gapPercent := 100 * float64(gapCount) / float64(expectedPeriods+1)

	return &profile.TimeSeries{
		Granularity:    granularity,
		GapCount:       gapCount,
		GapPercent:     gapPercent,
		IsContiguous:   gapPercent < 5.0,
		HasSeasonality: detectWeekdaySeasonality(sorted),
	}
}

func granularityFor(medianDiffSeconds float64) (profile.Granularity, time.Duration) {
	switch {
	case medianDiffSeconds < 120:
		return profile.GranularityMinute, time.Minute
	case medianDiffSeconds < 2*3600:
		return profile.GranularityHourly, time.Hour
	case medianDiffSeconds < 2*86400:
		return profile.GranularityDaily, 24 * time.Hour
	case medianDiffSeconds < 10*86400:
		return profile.GranularityWeekly, 7 * 24 * time.Hour
	case medianDiffSeconds < 60*86400:
		return profile.GranularityMonthly, 30 * 24 * time.Hour
	case medianDiffSeconds < 180*86400:
		return profile.GranularityQuarter, 91 * 24 * time.Hour
	default:
		return profile.GranularityYearly, 365 * 24 * time.Hour
	}
}

func medianOf(data []float64) (float64, bool) {
	if len(data) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

const seasonalityCVThreshold = 0.3

// detectWeekdaySeasonality flags a coefficient of variation above 0.3 across
// per-day-of-week counts (spec §4.2).
func detectWeekdaySeasonality(sorted []time.Time) bool {
	var counts [7]float64
	for _, t := range sorted {
		counts[int(t.Weekday())]++
	}
	data := counts[:]
	mean, _ := numerics.Summarize(data, true)
	if mean.Mean == 0 {
		return false
	}
	cv := mean.StdDev / mean.Mean
	return cv > seasonalityCVThreshold
}
