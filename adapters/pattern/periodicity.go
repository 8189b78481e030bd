package pattern

import (
	"dataprofiler/adapters/numerics"
	"dataprofiler/domain/profile"
)

const (
	periodicityMaxSamples = 500
	periodicityMaxLag     = 60
	periodicityPeakMin    = 0.2
)

var periodInterpretations = map[int]string{
	7:   "Weekly",
	12:  "Monthly",
	24:  "Hourly",
	52:  "Yearly weekly",
	365: "Yearly daily",
}

// DetectPeriodicity runs the autocorrelation function over up to 500
// samples for lags 1..60 and reports the dominant period (spec §4.2).
func DetectPeriodicity(values []float64) *profile.Periodicity {
	data := values
	if len(data) > periodicityMaxSamples {
		data = data[:periodicityMaxSamples]
	}
	maxLag := periodicityMaxLag
	if len(data)-1 < maxLag {
		maxLag = len(data) - 1
	}
	if maxLag < 1 {
		return nil
	}

	acfByLag := make([]float64, maxLag+1)
	for lag := 1; lag <= maxLag; lag++ {
		acfByLag[lag] = numerics.Autocorrelation(data, lag)
	}

	bestLag := 0
	bestACF := -2.0
	for lag := 1; lag <= maxLag; lag++ {
		isPeak := acfByLag[lag] > periodicityPeakMin &&
			(lag == 1 || acfByLag[lag] > acfByLag[lag-1]) &&
			(lag == maxLag || acfByLag[lag] > acfByLag[lag+1])
		if isPeak && acfByLag[lag] > bestACF {
			bestLag, bestACF = lag, acfByLag[lag]
		}
	}

	if bestLag == 0 {
		return nil
	}

	confidence := bestACF
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	interpretation := periodInterpretations[bestLag]
	if interpretation == "" {
		interpretation = "Unclassified"
	}

	return &profile.Periodicity{
		DominantPeriod: bestLag,
		Confidence:     confidence,
		Interpretation: interpretation,
	}
}
