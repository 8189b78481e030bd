// Package coercer deterministically classifies raw cell strings into typed
// valuetype.Value instances, the same way across every source reader.
package coercer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dataprofiler/domain/valuetype"
)

// Config defines the coercion thresholds used when analyzing a sample.
type Config struct {
	NumericThreshold   float64
	BooleanThreshold   float64
	TimestampThreshold float64
	NormalizeStrings   bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		NumericThreshold:   0.8,
		BooleanThreshold:   0.9,
		TimestampThreshold: 0.8,
		NormalizeStrings:   true,
	}
}

// Coercer converts raw cell strings to typed Values.
type Coercer struct {
	config Config
}

// New creates a Coercer with the given config.
func New(config Config) *Coercer {
	return &Coercer{config: config}
}

// Coerce deterministically converts a raw cell string to a typed Value.
func (c *Coercer) Coerce(raw string) valuetype.Value {
	if raw == "" {
		return valuetype.Null()
	}
	if v, ok := c.tryParseNumeric(raw); ok {
		return v
	}
	if v, ok := c.tryParseBoolean(raw); ok {
		return v
	}
	if v, ok := c.tryParseTimestamp(raw); ok {
		return v
	}
	return c.coerceToText(raw)
}

// Analysis summarizes how a sample coerces across candidate types.
type Analysis struct {
	ValidCount      int
	NumericRatio    float64
	BooleanRatio    float64
	TimestampRatio  float64
	RecommendedType valuetype.Kind
}

// Analyze samples raw cell strings and recommends a column-level type.
func (c *Coercer) Analyze(raws []string) Analysis {
	var numeric, boolean, timestamp, valid int
	for _, raw := range raws {
		if raw == "" {
			continue
		}
		valid++
		if _, ok := c.tryParseNumeric(raw); ok {
			numeric++
		}
		if _, ok := c.tryParseBoolean(raw); ok {
			boolean++
		}
		if _, ok := c.tryParseTimestamp(raw); ok {
			timestamp++
		}
	}

	a := Analysis{ValidCount: valid, RecommendedType: valuetype.KindText}
	if valid == 0 {
		return a
	}
	a.NumericRatio = float64(numeric) / float64(valid)
	a.BooleanRatio = float64(boolean) / float64(valid)
	a.TimestampRatio = float64(timestamp) / float64(valid)

	switch {
	case a.NumericRatio >= c.config.NumericThreshold:
		a.RecommendedType = valuetype.KindFloat
	case a.BooleanRatio >= c.config.BooleanThreshold:
		a.RecommendedType = valuetype.KindBool
	case a.TimestampRatio >= c.config.TimestampThreshold:
		a.RecommendedType = valuetype.KindDate
	}
	return a
}

func (c *Coercer) coerceToText(raw string) valuetype.Value {
	s := raw
	if c.config.NormalizeStrings {
		s = c.normalizeString(s)
	}
	if s == "" {
		return valuetype.Null()
	}
	return valuetype.Text(s)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// tryParseNumeric handles international formats: parenthesized negatives,
// currency symbols, and European thousands/decimal separators.
func (c *Coercer) tryParseNumeric(raw string) (valuetype.Value, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return valuetype.Value{}, false
	}

	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY", "%"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 3 && isAllDigits(afterComma) {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	case hasComma && !hasPeriod:
		cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
	default:
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return valuetype.Value{}, false
	}
	return valuetype.Float(val), true
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func (c *Coercer) tryParseBoolean(raw string) (valuetype.Value, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "on":
		return valuetype.Bool(true), true
	case "false", "no", "n", "off":
		return valuetype.Bool(false), true
	}
	return valuetype.Value{}, false
}

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

func (c *Coercer) tryParseTimestamp(raw string) (valuetype.Value, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return valuetype.Value{}, false
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, trimmed); err == nil {
			return valuetype.Date(t), true
		}
	}
	return valuetype.Value{}, false
}

func (c *Coercer) normalizeString(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
	return s
}

// FormatNumber round-trips a parsed number back into a display string,
// used when text values feed a pattern sample.
func FormatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}
