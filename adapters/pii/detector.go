package pii

import (
	"context"
	"strings"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/valuetype"
	"dataprofiler/ports"
)

const (
	maxSampledValues    = 1000
	detectionMinRate    = 0.10
	nameOnlyConfidence  = 0.3
	regexHitForCritical = 0.7

	uniquenessHighThreshold   = 0.99
	uniquenessMediumThreshold = 0.9

	weightRegex      = 0.5
	weightClassifier = 0.3
	weightUniqueness = 0.2
)

var criticalTypes = map[ports.PiiType]bool{
	ports.PiiSSN:         true,
	ports.PiiCreditCard:  true,
	ports.PiiBankAccount: true,
}

// Classifier is the optional external (column_name, sample_values) ->
// (label, confidence) classifier hook (spec §4.6). A nil Classifier is
// treated as absent, not an error.
type Classifier interface {
	Classify(ctx context.Context, columnName string, samples []string) (ports.PiiType, float64, bool)
}

// Detector implements ports.PiiDetector.
type Detector struct {
	classifier Classifier
}

// NewDetector constructs a PII detector. classifier may be nil.
func NewDetector(classifier Classifier) *Detector {
	return &Detector{classifier: classifier}
}

// AssessColumn runs the regex, name-heuristic, classifier, and uniqueness
// signals and combines them per the spec §4.6 weighted-max rule.
func (d *Detector) AssessColumn(ctx context.Context, columnName string, inferredType profile.InferredType, values []valuetype.Value, uniqueCount, count int64) (ports.ColumnPiiRisk, error) {
	samples := sampleNonNull(values, maxSampledValues)

	detectedTypes, regexRate := d.regexPass(samples)
	nameOnly := false
	if len(detectedTypes) == 0 {
		if t, ok := d.nameHeuristic(columnName); ok {
			detectedTypes = []ports.PiiType{t}
			nameOnly = true
		}
	}

	var classifierConfidence float64
	if d.classifier != nil {
		if t, confidence, ok := d.classifier.Classify(ctx, columnName, samples); ok {
			detectedTypes = appendUnique(detectedTypes, t)
			classifierConfidence = confidence
		}
	}

	var uniquenessSignal float64
	var uniquenessRisk ports.PiiRiskLevel = ports.PiiRiskNone
	if inferredType == profile.TypeText {
		uniquenessSignal, uniquenessRisk = d.uniquenessSignal(values, uniqueCount, count)
	}

	regexSignal := 0.0
	if regexRate > 0 {
		regexSignal = regexRate
	} else if nameOnly {
		regexSignal = nameOnlyConfidence
	}

	combined := max3(weightRegex*regexSignal, weightClassifier*classifierConfidence, weightUniqueness*uniquenessSignal)

	level := levelFromScore(combined)
	// Uniqueness alone can still name a bare identifier column (no regex or
	// classifier hit at all); once another signal has already explained the
	// cardinality (e.g. an email column is naturally near-unique), let the
	// weighted-max score stand instead of re-escalating on uniqueness.
	if len(detectedTypes) == 0 && uniquenessRisk != ports.PiiRiskNone && riskRank(uniquenessRisk) > riskRank(level) {
		level = uniquenessRisk
	}
	for _, t := range detectedTypes {
		if criticalTypes[t] && regexRate > regexHitForCritical {
			level = ports.PiiRiskCritical
		}
	}

	if len(detectedTypes) > 0 && level == ports.PiiRiskNone {
		level = ports.PiiRiskLow
	}

	return ports.ColumnPiiRisk{
		Column:            columnName,
		RiskLevel:         level,
		DetectedTypes:     detectedTypes,
		Confidence:        combined,
		NameOnlyMatch:     nameOnly,
		RecommendedAction: recommendAction(level),
	}, nil
}

func (d *Detector) regexPass(samples []string) ([]ports.PiiType, float64) {
	if len(samples) == 0 {
		return nil, 0
	}

	hits := make(map[ports.PiiType]int)
	for _, v := range samples {
		for _, entry := range catalog {
			if entry.re.MatchString(v) {
				hits[entry.piiType]++
				break // at most one match per value
			}
		}
	}

	var types []ports.PiiType
	var bestRate float64
	for t, count := range hits {
		rate := float64(count) / float64(len(samples))
		if rate > detectionMinRate {
			types = append(types, t)
			if rate > bestRate {
				bestRate = rate
			}
		}
	}
	return types, bestRate
}

func (d *Detector) nameHeuristic(columnName string) (ports.PiiType, bool) {
	lower := strings.ToLower(columnName)
	for t, substrs := range nameHeuristics {
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return t, true
			}
		}
	}
	return "", false
}

func (d *Detector) uniquenessSignal(values []valuetype.Value, uniqueCount, count int64) (float64, ports.PiiRiskLevel) {
	if count == 0 {
		return 0, ports.PiiRiskNone
	}
	ratio := float64(uniqueCount) / float64(count)
	if ratio <= uniquenessMediumThreshold {
		return 0, ports.PiiRiskNone
	}
	if ratio > uniquenessHighThreshold {
		return 1.0, ports.PiiRiskHigh
	}
	return 0.6, ports.PiiRiskMedium
}

func levelFromScore(score float64) ports.PiiRiskLevel {
	switch {
	case score <= 0:
		return ports.PiiRiskNone
	case score < 0.3:
		return ports.PiiRiskLow
	case score < 0.6:
		return ports.PiiRiskMedium
	case score < 0.85:
		return ports.PiiRiskHigh
	default:
		return ports.PiiRiskCritical
	}
}

func riskRank(level ports.PiiRiskLevel) int {
	switch level {
	case ports.PiiRiskCritical:
		return 4
	case ports.PiiRiskHigh:
		return 3
	case ports.PiiRiskMedium:
		return 2
	case ports.PiiRiskLow:
		return 1
	default:
		return 0
	}
}

func recommendAction(level ports.PiiRiskLevel) ports.RecommendedAction {
	switch level {
	case ports.PiiRiskCritical:
		return ports.ActionExclude
	case ports.PiiRiskHigh:
		return ports.ActionMask
	case ports.PiiRiskMedium:
		return ports.ActionFaker
	default:
		return ports.ActionSafe
	}
}

func sampleNonNull(values []valuetype.Value, max int) []string {
	out := make([]string, 0, max)
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		out = append(out, v.AsString())
		if len(out) >= max {
			break
		}
	}
	return out
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func appendUnique(types []ports.PiiType, t ports.PiiType) []ports.PiiType {
	for _, existing := range types {
		if existing == t {
			return types
		}
	}
	return append(types, t)
}
