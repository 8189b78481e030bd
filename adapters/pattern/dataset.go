package pattern

import (
	"dataprofiler/domain/profile"
	"dataprofiler/domain/valuetype"
	"dataprofiler/ports"
)

const (
	fkMinCardinality  = 2
	fkMaxCardinality  = 1000
	fkOverlapMin      = 0.9
	monotonicMaxRows  = 10_000
	monotonicRatioMin = 0.95
)

// DetectForeignKeys evaluates each (categorical, id-like) column pair and
// reports candidates whose overlap exceeds 0.9 (spec §4.2).
func DetectForeignKeys(columns []profile.ColumnProfile, values map[string][]valuetype.Value) []ports.DatasetPattern {
	var out []ports.DatasetPattern

	for _, cat := range columns {
		if cat.InferredType != profile.TypeCategorical {
			continue
		}
		if cat.UniqueCount < fkMinCardinality || cat.UniqueCount > fkMaxCardinality {
			continue
		}
		catValues, ok := values[cat.Name]
		if !ok {
			continue
		}
		catDistinct := distinctStrings(catValues)

		for _, id := range columns {
			if id.InferredType != profile.TypeID || id.Name == cat.Name {
				continue
			}
			idValues, ok := values[id.Name]
			if !ok {
				continue
			}
			idSet := toStringSet(idValues)

			overlap := overlapRatio(catDistinct, idSet)
			if overlap > fkOverlapMin {
				out = append(out, ports.DatasetPattern{
					Type:       "ForeignKeyCandidate",
					Column:     cat.Name,
					RefColumn:  id.Name,
					Ratio:      overlap,
					Confidence: overlap,
				})
			}
		}
	}

	return out
}

// DetectMonotonic evaluates numeric/id columns over up to 10,000 ordered
// rows and reports columns whose lag-1 differences are almost entirely
// increasing or decreasing (spec §4.2).
func DetectMonotonic(columns []profile.ColumnProfile, values map[string][]valuetype.Value) []ports.DatasetPattern {
	var out []ports.DatasetPattern

	for _, col := range columns {
		if col.InferredType != profile.TypeNumeric && col.InferredType != profile.TypeID {
			continue
		}
		vals, ok := values[col.Name]
		if !ok {
			continue
		}
		if len(vals) > monotonicMaxRows {
			vals = vals[:monotonicMaxRows]
		}

		increasing, decreasing, total := 0, 0, 0
		var prev float64
		havePrev := false
		for _, v := range vals {
			if v.IsNull() || !v.IsNumeric() {
				continue
			}
			f := v.AsFloat64()
			if havePrev {
				total++
				switch {
				case f > prev:
					increasing++
				case f < prev:
					decreasing++
				}
			}
			prev, havePrev = f, true
		}
		if total == 0 {
			continue
		}

		incRatio := float64(increasing) / float64(total)
		decRatio := float64(decreasing) / float64(total)

		switch {
		case incRatio > monotonicRatioMin:
			out = append(out, ports.DatasetPattern{Type: "Monotonic", Column: col.Name, Direction: "increasing", Ratio: incRatio, Confidence: incRatio})
		case decRatio > monotonicRatioMin:
			out = append(out, ports.DatasetPattern{Type: "Monotonic", Column: col.Name, Direction: "decreasing", Ratio: decRatio, Confidence: decRatio})
		}
	}

	return out
}

func distinctStrings(values []valuetype.Value) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		s := v.AsString()
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func toStringSet(values []valuetype.Value) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if !v.IsNull() {
			set[v.AsString()] = struct{}{}
		}
	}
	return set
}

func overlapRatio(distinct []string, set map[string]struct{}) float64 {
	if len(distinct) == 0 {
		return 0
	}
	hits := 0
	for _, v := range distinct {
		if _, ok := set[v]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(distinct))
}
