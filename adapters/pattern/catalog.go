// Package pattern implements per-column and dataset-level pattern detection:
// the text pattern catalog, novel character-class inference, distribution
// classification, trend, periodicity, time-series granularity, and
// dataset-level foreign-key/monotonic detection (spec §4.2).
package pattern

import (
	"regexp"

	"dataprofiler/domain/profile"
)

// catalogEntry pairs a text pattern type with its matching regex.
type catalogEntry struct {
	kind profile.TextPatternType
	re   *regexp.Regexp
}

// catalog is evaluated in order; the first catalog pass collects every
// entry crossing the 10% match threshold, then sorts by match percent.
var catalog = []catalogEntry{
	{profile.PatternEmail, regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)},
	{profile.PatternURL, regexp.MustCompile(`^https?://[^\s]+$`)},
	{profile.PatternUUID, regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)},
	{profile.PatternIPv4, regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)},
	{profile.PatternCreditCard, regexp.MustCompile(`^(\d{4}[- ]?){3}\d{4}$`)},
	{profile.PatternPhone, regexp.MustCompile(`^\+?\d{1,3}?[-. (]?\d{3}[-. )]?\d{3}[-. ]?\d{4}$`)},
	{profile.PatternPercentage, regexp.MustCompile(`^\d+(\.\d+)?%$`)},
	{profile.PatternCurrency, regexp.MustCompile(`^[$€£¥]\s?\d+(,\d{3})*(\.\d{1,2})?$`)},
}

const textPatternMinMatchPercent = 10.0

// MatchCatalog evaluates every non-null value in values against the fixed
// catalog and returns every pattern whose match percent crosses the
// threshold, sorted descending by match percent.
func MatchCatalog(values []string) []profile.TextPattern {
	if len(values) == 0 {
		return nil
	}

	var results []profile.TextPattern
	for _, entry := range catalog {
		matches := 0
		for _, v := range values {
			if entry.re.MatchString(v) {
				matches++
			}
		}
		percent := 100 * float64(matches) / float64(len(values))
		if percent >= textPatternMinMatchPercent {
			results = append(results, profile.TextPattern{
				Type:         entry.kind,
				MatchPercent: percent,
			})
		}
	}

	sortByMatchPercentDesc(results)
	return results
}

func sortByMatchPercentDesc(patterns []profile.TextPattern) {
	for i := 1; i < len(patterns); i++ {
		for j := i; j > 0 && patterns[j].MatchPercent > patterns[j-1].MatchPercent; j-- {
			patterns[j], patterns[j-1] = patterns[j-1], patterns[j]
		}
	}
}
