package store

import (
	"sort"
	"strings"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/signature"
)

// BuildStatisticalSignature summarizes a profile's shape for coarse
// similarity grouping independent of exact schema match (spec §3).
func BuildStatisticalSignature(p *profile.DataProfile) signature.StatisticalSignature {
	sig := signature.StatisticalSignature{
		RowCountBucket: signature.BucketForRowCount(p.RowCount),
		CountsByType:   make(map[profile.InferredType]int, len(p.Columns)),
		PerColumnStats: make(map[string]signature.ColumnSignature, len(p.Columns)),
	}

	var nullSum, uniqueSum float64
	names := make([]string, 0, len(p.Columns))
	for _, c := range p.Columns {
		sig.CountsByType[c.InferredType]++
		nullSum += c.NullPercent
		uniqueSum += c.UniquePercent

		name := strings.ToLower(c.Name)
		names = append(names, name)
		sig.PerColumnStats[name] = columnSignature(c)
	}
	sort.Strings(names)
	sig.ColumnNames = names

	if n := len(p.Columns); n > 0 {
		sig.AvgNullPercent = nullSum / float64(n)
		sig.AvgUniquePercent = uniqueSum / float64(n)
	}
	return sig
}

func columnSignature(c profile.ColumnProfile) signature.ColumnSignature {
	cs := signature.ColumnSignature{
		NormalizedName: strings.ToLower(c.Name),
		Type:           c.InferredType,
		NullPercent:    c.NullPercent,
		UniquePercent:  c.UniquePercent,
	}

	switch c.InferredType {
	case profile.TypeNumeric:
		cs.Mean, cs.Median, cs.StdDev = c.Mean, c.Median, c.StdDev
		cs.Skewness, cs.Q25, cs.Q75 = c.Skewness, c.Q25, c.Q75
		if c.Count > 0 {
			cs.OutlierRatio = float64(c.OutlierCount) / float64(c.Count)
		}
	case profile.TypeCategorical, profile.TypeBoolean:
		cs.Cardinality = c.UniqueCount
		cs.Entropy = c.Entropy
		cs.ImbalanceRatio = c.ImbalanceRatio
		if len(c.TopValues) > 0 {
			dist := make(map[string]float64, len(c.TopValues))
			for _, tv := range c.TopValues {
				dist[tv.Value] = tv.Percent
			}
			cs.TopKDistribution = dist
		}
	}
	return cs
}
