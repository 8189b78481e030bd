// Package valuetype defines the Value sum type used wherever a column cell
// needs a typed, deterministic representation instead of interface{}.
package valuetype

import (
	"fmt"
	"time"
)

// Kind identifies which arm of Value is populated.
type Kind string

const (
	KindInt       Kind = "int"
	KindFloat     Kind = "float"
	KindText      Kind = "text"
	KindBool      Kind = "bool"
	KindDate      Kind = "date"
	KindNull      Kind = "null"
)

// Value is a closed sum type over the cell types a QueryResult or column
// source can produce. Exactly one of the typed fields is meaningful,
// selected by Kind; Null carries none.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
	Bool  bool
	Date  time.Time
}

func Null() Value                 { return Value{Kind: KindNull} }
func Int(n int64) Value           { return Value{Kind: KindInt, Int: n} }
func Float(f float64) Value       { return Value{Kind: KindFloat, Float: f} }
func Text(s string) Value         { return Value{Kind: KindText, Text: s} }
func Bool(b bool) Value           { return Value{Kind: KindBool, Bool: b} }
func Date(t time.Time) Value      { return Value{Kind: KindDate, Date: t} }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsNumeric reports whether the value can participate in numeric aggregates.
func (v Value) IsNumeric() bool { return v.Kind == KindInt || v.Kind == KindFloat }

// AsFloat64 returns the numeric interpretation of the value, or 0 if not numeric.
func (v Value) AsFloat64() float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.Int)
	case KindFloat:
		return v.Float
	}
	return 0
}

// AsString renders the value as a display string, used for cardinality
// bucketing and categorical frequency counts.
func (v Value) AsString() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindText:
		return v.Text
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindDate:
		return v.Date.Format(time.RFC3339)
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.IsNull() {
		return "<null>"
	}
	return v.AsString()
}
