// Package pii implements the PII risk ensemble: a fixed regex catalog,
// column-name heuristics, an optional external classifier hook, and a
// uniqueness signal, combined into a ColumnPiiRisk (spec §4.6).
package pii

import (
	"regexp"

	"dataprofiler/ports"
)

type catalogEntry struct {
	piiType ports.PiiType
	re      *regexp.Regexp
}

// catalog is evaluated in order; at most one match per value (first hit
// wins), per spec §4.6.
var catalog = []catalogEntry{
	{ports.PiiSSN, regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)},
	{ports.PiiCreditCard, regexp.MustCompile(`^(\d{4}[- ]?){3}\d{4}$`)},
	{ports.PiiIBAN, regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z0-9]{10,30}$`)},
	{ports.PiiRouting, regexp.MustCompile(`^\d{9}$`)},
	{ports.PiiEmail, regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)},
	{ports.PiiPhone, regexp.MustCompile(`^\+?\d{1,3}?[-. (]?\d{3}[-. )]?\d{3}[-. ]?\d{4}$`)},
	{ports.PiiIPAddress, regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$|^([0-9a-fA-F]{0,4}:){2,7}[0-9a-fA-F]{0,4}$`)},
	{ports.PiiMAC, regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)},
	{ports.PiiUUID, regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)},
	{ports.PiiURL, regexp.MustCompile(`^https?://[^\s]+$`)},
	{ports.PiiDate, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)},
	{ports.PiiZip, regexp.MustCompile(`^\d{5}(-\d{4})?$`)},
	{ports.PiiUSState, regexp.MustCompile(`^(?i)(AL|AK|AZ|AR|CA|CO|CT|DE|FL|GA|HI|ID|IL|IN|IA|KS|KY|LA|ME|MD|MA|MI|MN|MS|MO|MT|NE|NV|NH|NJ|NM|NY|NC|ND|OH|OK|OR|PA|RI|SC|SD|TN|TX|UT|VT|VA|WA|WV|WI|WY)$`)},
	{ports.PiiVIN, regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)},
	{ports.PiiBankAccount, regexp.MustCompile(`^\d{8,17}$`)},
	{ports.PiiPassport, regexp.MustCompile(`^[A-Z]{1,2}\d{6,9}$`)},
}

var nameHeuristics = map[ports.PiiType][]string{
	ports.PiiSSN:         {"ssn", "social_security"},
	ports.PiiCreditCard:  {"credit_card", "creditcard", "card_number"},
	ports.PiiBankAccount: {"bank_account", "account_number"},
	ports.PiiEmail:       {"email"},
	ports.PiiPhone:       {"phone", "telephone", "mobile"},
	ports.PiiZip:         {"zip", "zipcode", "postal"},
	ports.PiiPassport:    {"passport"},
	ports.PiiDate:        {"dob", "birthdate", "date_of_birth"},
	ports.PiiIdentifier:  {"address", "license"},
}
