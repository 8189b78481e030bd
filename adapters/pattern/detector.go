package pattern

import (
	"context"
	"time"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/valuetype"
	"dataprofiler/ports"
)

// Detector implements ports.PatternDetector. It holds no state: every
// enrichment is a pure function of the column it is given, so concurrent
// per-column enrichment never needs to coordinate (spec §5).
type Detector struct{}

// NewDetector constructs a pattern detector.
func NewDetector() *Detector { return &Detector{} }

// EnrichColumn fills in Distribution, Trend, TimeSeries, Periodicity, and
// TextPatterns on col, in place, per spec §4.2.
func (d *Detector) EnrichColumn(ctx context.Context, col *profile.ColumnProfile, values []valuetype.Value, dateAnchor []valuetype.Value, fastMode bool) error {
	switch col.InferredType {
	case profile.TypeText:
		d.enrichText(col, values)
	case profile.TypeNumeric:
		d.enrichNumeric(col, values, dateAnchor, fastMode)
	case profile.TypeDateTime:
		d.enrichDateTime(col, values, fastMode)
	}
	return nil
}

func (d *Detector) enrichText(col *profile.ColumnProfile, values []valuetype.Value) {
	nonNull := stringsOf(values)
	if len(nonNull) == 0 {
		return
	}

	catalogHits := MatchCatalog(nonNull)
	if len(catalogHits) > 0 {
		col.TextPatterns = catalogHits
		return
	}

	if novel, ok := DetectNovel(distinctOf(nonNull), len(nonNull)); ok {
		col.TextPatterns = []profile.TextPattern{novel}
	}
}

func (d *Detector) enrichNumeric(col *profile.ColumnProfile, values []valuetype.Value, dateAnchor []valuetype.Value, fastMode bool) {
	nums := numericsOf(values)
	if fastMode {
		// Fast mode skips distribution classification entirely: no
		// histogram pass, no bimodality or shape check.
		col.Distribution = profile.DistUnknown
	} else if len(nums) == 0 || col.StdDev <= 0 {
		col.Distribution = profile.DistUnknown
	} else {
		histogram := Histogram(nums, col.Min, col.Max, 10)
		col.Distribution = ClassifyDistribution(col.StdDev, col.Skewness, col.Kurtosis, col.Min, col.Max, col.IQR, histogram)
	}

	var daysSinceAnchor []float64
	if len(dateAnchor) == len(values) {
		anchorMin, ok := minDate(dateAnchor)
		if ok {
			daysSinceAnchor = make([]float64, 0, len(values))
			filtered := make([]float64, 0, len(values))
			for i, v := range values {
				if v.IsNull() || !v.IsNumeric() || dateAnchor[i].IsNull() {
					continue
				}
				daysSinceAnchor = append(daysSinceAnchor, dateAnchor[i].Date.Sub(anchorMin).Hours()/24)
				filtered = append(filtered, v.AsFloat64())
			}
			if len(filtered) >= 3 {
				col.Trend = DetectTrend(filtered, daysSinceAnchor)
			}
		}
	}
	if col.Trend == nil {
		col.Trend = DetectTrend(nums, nil)
	}

	if !fastMode {
		col.Periodicity = DetectPeriodicity(nums)
	}
}

func (d *Detector) enrichDateTime(col *profile.ColumnProfile, values []valuetype.Value, fastMode bool) {
	if fastMode {
		return
	}
	var timestamps []time.Time
	for _, v := range values {
		if !v.IsNull() && v.Kind == valuetype.KindDate {
			timestamps = append(timestamps, v.Date)
		}
	}
	col.TimeSeries = DetectTimeSeries(timestamps)
}

// DetectDatasetPatterns runs the dataset-level foreign-key and monotonic
// passes across already-profiled columns (spec §4.2). Skipped in fast mode.
func (d *Detector) DetectDatasetPatterns(ctx context.Context, p *profile.DataProfile, columns map[string][]valuetype.Value, fastMode bool) ([]ports.DatasetPattern, error) {
	if fastMode {
		return nil, nil
	}
	out := DetectForeignKeys(p.Columns, columns)
	out = append(out, DetectMonotonic(p.Columns, columns)...)
	return out, nil
}

func stringsOf(values []valuetype.Value) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !v.IsNull() {
			out = append(out, v.AsString())
		}
	}
	return out
}

func distinctOf(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func numericsOf(values []valuetype.Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !v.IsNull() && v.IsNumeric() {
			out = append(out, v.AsFloat64())
		}
	}
	return out
}

func minDate(values []valuetype.Value) (time.Time, bool) {
	var min time.Time
	found := false
	for _, v := range values {
		if v.IsNull() || v.Kind != valuetype.KindDate {
			continue
		}
		if !found || v.Date.Before(min) {
			min = v.Date
			found = true
		}
	}
	return min, found
}
