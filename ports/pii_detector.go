package ports

import (
	"context"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/valuetype"
)

// PiiRiskLevel is the advisory risk label (spec §4.6, GLOSSARY).
type PiiRiskLevel string

const (
	PiiRiskNone     PiiRiskLevel = "None"
	PiiRiskLow      PiiRiskLevel = "Low"
	PiiRiskMedium   PiiRiskLevel = "Medium"
	PiiRiskHigh     PiiRiskLevel = "High"
	PiiRiskCritical PiiRiskLevel = "Critical"
)

// PiiType names a detected category of personally identifiable information.
type PiiType string

const (
	PiiSSN         PiiType = "SSN"
	PiiCreditCard  PiiType = "CreditCard"
	PiiBankAccount PiiType = "BankAccount"
	PiiEmail       PiiType = "Email"
	PiiPhone       PiiType = "Phone"
	PiiIPAddress   PiiType = "IPAddress"
	PiiMAC         PiiType = "MAC"
	PiiUUID        PiiType = "UUID"
	PiiURL         PiiType = "URL"
	PiiDate        PiiType = "Date"
	PiiZip         PiiType = "Zip"
	PiiUSState     PiiType = "USState"
	PiiVIN         PiiType = "VIN"
	PiiIBAN        PiiType = "IBAN"
	PiiRouting     PiiType = "Routing"
	PiiPassport    PiiType = "Passport"
	PiiIdentifier  PiiType = "Identifier"
)

// RecommendedAction is the handling advice attached to a risk result.
type RecommendedAction string

const (
	ActionExclude RecommendedAction = "exclude"
	ActionMask    RecommendedAction = "mask"
	ActionFaker   RecommendedAction = "faker"
	ActionSafe    RecommendedAction = "safe"
)

// ColumnPiiRisk is the ensemble result for one column (spec §4.6).
type ColumnPiiRisk struct {
	Column            string
	RiskLevel         PiiRiskLevel
	DetectedTypes     []PiiType
	Confidence        float64
	NameOnlyMatch     bool
	RecommendedAction RecommendedAction
}

// PiiDetector assesses a column's PII risk via a regex ensemble, column-name
// heuristics, an optional classifier, and a uniqueness signal (spec §4.6).
type PiiDetector interface {
	AssessColumn(ctx context.Context, columnName string, inferredType profile.InferredType, values []valuetype.Value, uniqueCount, count int64) (ColumnPiiRisk, error)
}
