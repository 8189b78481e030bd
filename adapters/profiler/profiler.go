// Package profiler implements the orchestrator that turns a registered data
// source into a complete DataProfile (spec §4.1): schema discovery, type
// inference, per-column aggregate statistics, pattern/PII enrichment, and
// dataset-level alerts and insights.
package profiler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"dataprofiler/adapters/numerics"
	"dataprofiler/domain/core"
	"dataprofiler/domain/profile"
	"dataprofiler/domain/source"
	"dataprofiler/domain/valuetype"
	"dataprofiler/internal"
	"dataprofiler/ports"
)

const (
	nullWarningThreshold   = 20.0
	nullErrorThreshold     = 50.0
	categoricalMaxUnique   = 1000
	categoricalMaxFraction = 0.5
	idUniquePercentMin     = 99.0
	numericRatioMin        = 0.95
	dateRatioMin           = 0.95
	defaultMaxTopK         = 20
	minCorrelationRows     = 3
)

var booleanLabels = map[string]bool{
	"true": true, "false": true, "0": true, "1": true, "yes": true, "no": true,
}

// Profiler implements ports.Profiler.
type Profiler struct {
	query   ports.QueryAdapter
	pattern ports.PatternDetector
	pii     ports.PiiDetector
	logger  *internal.Logger
}

// New constructs an orchestrating profiler over the given collaborators.
func New(query ports.QueryAdapter, pattern ports.PatternDetector, pii ports.PiiDetector, logger *internal.Logger) *Profiler {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Profiler{query: query, pattern: pattern, pii: pii, logger: logger}
}

// Profile runs the full profiling algorithm against desc (spec §4.1).
func (p *Profiler) Profile(ctx context.Context, desc source.Descriptor, opts source.Options) (*profile.DataProfile, error) {
	start := time.Now()
	p.logger.Debug("profiling source kind=%s locator=%s", desc.Kind, desc.Locator)

	readExpr, err := p.query.Register(ctx, desc)
	if err != nil {
		p.logger.Error("failed to register source %s: %v", desc.Locator, err)
		return nil, err
	}
	defer p.query.Release(ctx, readExpr)

	schema, err := p.query.Schema(ctx, readExpr)
	if err != nil {
		return nil, err
	}

	rowCount, err := p.query.RowCount(ctx, readExpr)
	if err != nil {
		return nil, err
	}

	table, err := p.query.ReadTable(ctx, readExpr)
	if err != nil {
		return nil, err
	}

	maxTopK := opts.MaxTopK
	if maxTopK == 0 {
		maxTopK = defaultMaxTopK
	}

	columns := make([]profile.ColumnProfile, len(schema))
	rawValues := make(map[string][]valuetype.Value, len(schema))

	for i, col := range schema {
		values, _ := table.Column(col.Name)
		rawValues[col.Name] = values
		columns[i] = buildColumnStats(col.Name, values, maxTopK, opts.FastMode)
	}

	dateAnchor := pickDateAnchor(columns, rawValues)

	if err := p.enrichColumns(ctx, columns, rawValues, dateAnchor, opts.FastMode); err != nil {
		return nil, err
	}

	dp := &profile.DataProfile{
		SourcePath:  desc.Locator,
		RowCount:    rowCount,
		ColumnCount: len(columns),
		Columns:     columns,
	}

	dp.Alerts = append(dp.Alerts, columnAlerts(columns)...)

	piiAlerts, err := p.assessPii(ctx, columns, rawValues)
	if err != nil {
		return nil, err
	}
	dp.Alerts = append(dp.Alerts, piiAlerts...)

	dp.Correlations = correlations(columns, rawValues)

	datasetPatterns, err := p.pattern.DetectDatasetPatterns(ctx, dp, rawValues, opts.FastMode)
	if err != nil {
		return nil, err
	}
	dp.Insights = append(dp.Insights, datasetInsights(datasetPatterns)...)

	dp.ProfileTime = time.Since(start)
	p.logger.Info("profiled %s: %d rows, %d columns in %s", desc.Locator, dp.RowCount, dp.ColumnCount, dp.ProfileTime)
	return dp, nil
}

// enrichColumns runs PatternDetector.EnrichColumn per column, concurrently.
// Each goroutine only writes to its own column slot so no synchronization is
// needed around the shared slice (spec §5).
func (p *Profiler) enrichColumns(ctx context.Context, columns []profile.ColumnProfile, rawValues map[string][]valuetype.Value, dateAnchor []valuetype.Value, fastMode bool) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range columns {
		i := i
		g.Go(func() error {
			values := rawValues[columns[i].Name]
			return p.pattern.EnrichColumn(gctx, &columns[i], values, dateAnchor, fastMode)
		})
	}
	return g.Wait()
}

func (p *Profiler) assessPii(ctx context.Context, columns []profile.ColumnProfile, rawValues map[string][]valuetype.Value) ([]profile.DataAlert, error) {
	var alerts []profile.DataAlert
	for i := range columns {
		col := &columns[i]
		risk, err := p.pii.AssessColumn(ctx, col.Name, col.InferredType, rawValues[col.Name], col.UniqueCount, col.Count)
		if err != nil {
			return nil, err
		}
		if risk.RiskLevel == ports.PiiRiskNone {
			continue
		}
		alerts = append(alerts, profile.DataAlert{
			Severity: piiSeverity(risk.RiskLevel),
			Column:   col.Name,
			Type:     "PiiDetected",
			Message:  "detected PII risk " + string(risk.RiskLevel) + " (" + piiTypesJoined(risk.DetectedTypes) + ")",
		})
	}
	return alerts, nil
}

// A risk level severe enough to warrant masking or exclusion (High/Critical)
// counts against DataQuality; Medium/Low are surfaced for visibility only —
// a column full of emails isn't itself a quality defect.
func piiSeverity(level ports.PiiRiskLevel) profile.Severity {
	switch level {
	case ports.PiiRiskCritical, ports.PiiRiskHigh:
		return profile.SeverityError
	default:
		return profile.SeverityInfo
	}
}

func piiTypesJoined(types []ports.PiiType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}

// buildColumnStats computes counts, numeric/date/text/categorical summaries,
// and the final type inference for one column (spec §4.1, §3).
func buildColumnStats(name string, values []valuetype.Value, maxTopK int, fastMode bool) profile.ColumnProfile {
	count := int64(len(values))
	var nullCount int64
	counts := make(map[string]int64)
	var numericValues []float64
	var dateValues []time.Time
	var textLengths []int
	numericCount, dateCount := 0, 0

	for _, v := range values {
		if v.IsNull() {
			nullCount++
			continue
		}
		counts[v.AsString()]++
		if v.IsNumeric() {
			numericCount++
			numericValues = append(numericValues, v.AsFloat64())
		}
		if v.Kind == valuetype.KindDate {
			dateCount++
			dateValues = append(dateValues, v.Date)
		}
		textLengths = append(textLengths, len(v.AsString()))
	}

	nonNull := count - nullCount
	uniqueCount := int64(len(counts))

	col := profile.ColumnProfile{
		Name:        name,
		Count:       count,
		NullCount:   nullCount,
		UniqueCount: uniqueCount,
	}
	if count > 0 {
		col.NullPercent = float64(nullCount) / float64(count) * 100
		col.UniquePercent = float64(uniqueCount) / float64(count) * 100
		col.CardinalityRatio = float64(uniqueCount) / float64(count)
	}

	numericRatio := ratio(numericCount, nonNull)
	dateRatio := ratio(dateCount, nonNull)

	if numericCount > 0 {
		s, ok := numerics.Summarize(numericValues, false)
		if ok {
			col.Min, col.Max, col.Mean, col.StdDev = s.Min, s.Max, s.Mean, s.StdDev
			col.Median, col.Q25, col.Q75, col.IQR = s.Median, s.Q25, s.Q75, s.IQR
			col.MAD, col.Skewness, col.Kurtosis = s.MAD, s.Skewness, s.Kurtosis
			col.OutlierCount = s.OutlierCount
			col.HasNumeric = true
			if fastMode {
				col.Kurtosis = 0
			}
		}
	}

	if dateCount > 0 {
		min, max := minMaxTime(dateValues)
		col.MinDate = core.NewTimestamp(min)
		col.MaxDate = core.NewTimestamp(max)
		col.DateSpanDays = int(max.Sub(min).Hours() / 24)
		col.HasDateRange = true
	}

	if len(textLengths) > 0 {
		col.AvgLength = meanInt(textLengths)
		col.MaxLength = maxInt(textLengths)
	}

	col.TopValues = topValues(counts, nonNull, maxTopK)
	col.Entropy = entropy(counts, nonNull)
	col.ImbalanceRatio = imbalanceRatio(counts, nonNull, uniqueCount)

	col.InferredType = inferType(name, col, numericRatio, dateRatio, counts)
	return col
}

func ratio(numer int, denom int64) float64 {
	if denom == 0 {
		return 0
	}
	return float64(numer) / float64(denom)
}

func inferType(name string, col profile.ColumnProfile, numericRatio, dateRatio float64, distinctCounts map[string]int64) profile.InferredType {
	nameEndsWithID := strings.HasSuffix(strings.ToLower(name), "id")

	if (col.UniqueCount == col.Count-col.NullCount && col.UniqueCount > 0 && nameEndsWithID) ||
		(numericRatio > numericRatioMin && col.UniquePercent > idUniquePercentMin) {
		return profile.TypeID
	}
	if numericRatio > numericRatioMin {
		return profile.TypeNumeric
	}
	if dateRatio > dateRatioMin {
		return profile.TypeDateTime
	}
	if len(distinctCounts) == 2 && allBooleanLabels(distinctCounts) {
		return profile.TypeBoolean
	}
	if col.UniqueCount <= minInt64(categoricalMaxUnique, int64(float64(col.Count)*categoricalMaxFraction)) {
		return profile.TypeCategorical
	}
	return profile.TypeText
}

func allBooleanLabels(distinctCounts map[string]int64) bool {
	for k := range distinctCounts {
		if !booleanLabels[strings.ToLower(k)] {
			return false
		}
	}
	return true
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func meanInt(vs []int) float64 {
	var sum int
	for _, v := range vs {
		sum += v
	}
	return float64(sum) / float64(len(vs))
}

func maxInt(vs []int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minMaxTime(ts []time.Time) (time.Time, time.Time) {
	min, max := ts[0], ts[0]
	for _, t := range ts[1:] {
		if t.Before(min) {
			min = t
		}
		if t.After(max) {
			max = t
		}
	}
	return min, max
}

func topValues(counts map[string]int64, nonNull int64, maxTopK int) []profile.TopValue {
	out := make([]profile.TopValue, 0, len(counts))
	for v, c := range counts {
		percent := 0.0
		if nonNull > 0 {
			percent = float64(c) / float64(nonNull) * 100
		}
		out = append(out, profile.TopValue{Value: v, Count: c, Percent: percent})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > maxTopK {
		out = out[:maxTopK]
	}
	return out
}

func entropy(counts map[string]int64, total int64) float64 {
	cs := make([]int64, 0, len(counts))
	for _, c := range counts {
		cs = append(cs, c)
	}
	return numerics.Entropy(cs, total)
}

func imbalanceRatio(counts map[string]int64, nonNull int64, uniqueCount int64) float64 {
	if uniqueCount == 0 || nonNull == 0 {
		return 0
	}
	var top int64
	for _, c := range counts {
		if c > top {
			top = c
		}
	}
	expected := float64(nonNull) / float64(uniqueCount)
	if expected == 0 {
		return 0
	}
	return float64(top) / expected
}

func pickDateAnchor(columns []profile.ColumnProfile, rawValues map[string][]valuetype.Value) []valuetype.Value {
	for i := range columns {
		if columns[i].InferredType == profile.TypeDateTime {
			return rawValues[columns[i].Name]
		}
	}
	return nil
}

func columnAlerts(columns []profile.ColumnProfile) []profile.DataAlert {
	var alerts []profile.DataAlert
	for _, c := range columns {
		switch {
		case c.NullPercent > nullErrorThreshold:
			alerts = append(alerts, profile.DataAlert{Severity: profile.SeverityError, Column: c.Name, Type: "HighNullRate", Message: "null rate exceeds 50%"})
		case c.NullPercent > nullWarningThreshold:
			alerts = append(alerts, profile.DataAlert{Severity: profile.SeverityWarning, Column: c.Name, Type: "ElevatedNullRate", Message: "null rate exceeds 20%"})
		}
		if c.UniqueCount == 1 && c.Count > 0 {
			alerts = append(alerts, profile.DataAlert{Severity: profile.SeverityInfo, Column: c.Name, Type: "ConstantColumn", Message: "column has a single distinct value"})
		}
	}
	return alerts
}

func datasetInsights(patterns []ports.DatasetPattern) []profile.Insight {
	insights := make([]profile.Insight, 0, len(patterns))
	for _, pat := range patterns {
		switch pat.Type {
		case "ForeignKeyCandidate":
			insights = append(insights, profile.Insight{
				Title:          "Possible foreign key",
				Description:    pat.Column + " overlaps " + pat.RefColumn + " with ratio " + formatRatio(pat.Ratio),
				Source:         "PatternDetector",
				RelatedColumns: []string{pat.Column, pat.RefColumn},
			})
		case "Monotonic":
			insights = append(insights, profile.Insight{
				Title:          "Monotonic sequence",
				Description:    pat.Column + " is " + pat.Direction + " with ratio " + formatRatio(pat.Ratio),
				Source:         "PatternDetector",
				RelatedColumns: []string{pat.Column},
			})
		}
	}
	return insights
}

func formatRatio(r float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", r), "0"), ".")
}

// correlations computes pairwise Pearson correlation across numeric columns
// that share complete, non-null rows.
func correlations(columns []profile.ColumnProfile, rawValues map[string][]valuetype.Value) []profile.Correlation {
	var numericCols []string
	for _, c := range columns {
		if c.InferredType == profile.TypeNumeric && c.HasNumeric {
			numericCols = append(numericCols, c.Name)
		}
	}

	var out []profile.Correlation
	for i := 0; i < len(numericCols); i++ {
		for j := i + 1; j < len(numericCols); j++ {
			a, b := pairedNumerics(rawValues[numericCols[i]], rawValues[numericCols[j]])
			if len(a) < minCorrelationRows {
				continue
			}
			c := stat.Correlation(a, b, nil)
			out = append(out, profile.Correlation{Col1: numericCols[i], Col2: numericCols[j], Correlation: c})
		}
	}
	return out
}

func pairedNumerics(a, b []valuetype.Value) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var xs, ys []float64
	for i := 0; i < n; i++ {
		if a[i].IsNull() || b[i].IsNull() || !a[i].IsNumeric() || !b[i].IsNumeric() {
			continue
		}
		xs = append(xs, a[i].AsFloat64())
		ys = append(ys, b[i].AsFloat64())
	}
	return xs, ys
}
