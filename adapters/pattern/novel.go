package pattern

import (
	"regexp"
	"sort"
	"strings"

	"dataprofiler/domain/profile"
)

const (
	novelMaxSamples       = 200
	novelMinSampleLen     = 2
	novelMaxSampleLen     = 100
	novelMinNonNullValues = 10
	novelDominantShare    = 0.70
)

// signature replaces runs of letters with 'A', digits with 'N', whitespace
// with 'W', and everything else with 'S'.
func signature(value string) string {
	var b strings.Builder
	var run rune
	for _, r := range value {
		class := classify(r)
		if class != run {
			b.WriteRune(class)
			run = class
		}
	}
	return b.String()
}

func classify(r rune) rune {
	switch {
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		return 'A'
	case r >= '0' && r <= '9':
		return 'N'
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return 'W'
	default:
		return 'S'
	}
}

// DetectNovel runs the character-class signature pass over distinctValues
// and reports a Novel pattern when one signature dominates (spec §4.2).
// It is only meaningful when the catalog found no match and the column has
// enough non-null values.
func DetectNovel(distinctValues []string, nonNullCount int) (profile.TextPattern, bool) {
	if nonNullCount < novelMinNonNullValues {
		return profile.TextPattern{}, false
	}

	samples := make([]string, 0, novelMaxSamples)
	for _, v := range distinctValues {
		if len(v) < novelMinSampleLen || len(v) > novelMaxSampleLen {
			continue
		}
		samples = append(samples, v)
		if len(samples) >= novelMaxSamples {
			break
		}
	}
	if len(samples) == 0 {
		return profile.TextPattern{}, false
	}

	groups := make(map[string][]string)
	for _, v := range samples {
		sig := signature(v)
		groups[sig] = append(groups[sig], v)
	}

	var bestSig string
	var bestGroup []string
	for sig, group := range groups {
		if len(group) > len(bestGroup) {
			bestSig, bestGroup = sig, group
		}
	}

	share := float64(len(bestGroup)) / float64(len(samples))
	if share < novelDominantShare {
		return profile.TextPattern{}, false
	}

	return profile.TextPattern{
		Type:          profile.PatternNovel,
		MatchPercent:  share * 100,
		InferredRegex: inferRegex(bestSig),
		Description:   describeSignature(bestSig),
	}, true
}

func inferRegex(sig string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, c := range sig {
		switch c {
		case 'A':
			b.WriteString(`[a-zA-Z]+`)
		case 'N':
			b.WriteString(`[0-9]+`)
		case 'W':
			b.WriteString(`\s+`)
		default:
			b.WriteString(`[^a-zA-Z0-9\s]+`)
		}
	}
	b.WriteString("$")
	return b.String()
}

func describeSignature(sig string) string {
	names := map[rune]string{'A': "letters", 'N': "numbers", 'S': "symbols", 'W': "whitespace"}
	parts := make([]string, 0, len(sig))
	for _, c := range sig {
		parts = append(parts, names[c])
	}
	return strings.Join(parts, " + ")
}

// ExamplesMatching returns the subset of examples matching
// pattern.InferredRegex, sorted, used to uphold the invariant that every example behind an inferred regex
// actually matches it.
func ExamplesMatching(examples []string, pattern profile.TextPattern) []string {
	if pattern.InferredRegex == "" {
		return nil
	}
	var kept []string
	for _, e := range examples {
		if matchesRegex(e, pattern.InferredRegex) {
			kept = append(kept, e)
		}
	}
	sort.Strings(kept)
	return kept
}

func matchesRegex(value, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}
