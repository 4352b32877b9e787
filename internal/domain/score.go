package domain

import "math"

// Baseline stands in for contributing factors the forecast does not carry.
const Baseline = 15.0

// RoundingPolicy names the tie-break rule used by Finalize.
const RoundingPolicy = "half-up"

const (
	minScore = 0
	maxScore = 100
)

// Score is a finalized sunset score in [0, 100].
type Score int

// Breakdown is the per-term contribution to a raw score.
type Breakdown struct {
	Cloud    float64 `json:"cloud"`
	Humidity float64 `json:"humidity"`
	PM25     float64 `json:"pm25"`
	Baseline float64 `json:"baseline"`
	Raw      float64 `json:"raw"`
}

// CloudTerm peaks at 35 for 45% cover and loses 0.7 per point either side.
func CloudTerm(cloudCoverPct float64) float64 {
	return math.Max(0, 35-math.Abs(45-cloudCoverPct)*0.7)
}

// HumidityTerm is 20 up to 55% humidity and loses 0.5 per point above.
func HumidityTerm(humidityPct float64) float64 {
	return math.Max(0, 20-math.Max(0, humidityPct-55)*0.5)
}

// PMTerm is 30 up to 12 µg/m³ and loses 2 per µg/m³ above.
func PMTerm(pm25 float64) float64 {
	return math.Max(0, 30-math.Max(0, pm25-12)*2)
}

// ScoreBreakdown computes each term and their unbounded sum.
func ScoreBreakdown(n NormalizedReading) Breakdown {
	b := Breakdown{
		Cloud:    CloudTerm(n.CloudCoverPct),
		Humidity: HumidityTerm(n.HumidityPct),
		PM25:     PMTerm(n.PM25),
		Baseline: Baseline,
	}
	b.Raw = b.Cloud + b.Humidity + b.PM25 + b.Baseline
	return b
}

// RawScore returns the unbounded score for a normalized reading.
func RawScore(n NormalizedReading) float64 {
	return ScoreBreakdown(n).Raw
}

// Finalize rounds half-up and clamps to [0, 100]. NaN and ±Inf yield 0.
// math.Round rounds halves away from zero, which equals half-up on [0, 100].
func Finalize(raw float64) Score {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return minScore
	}
	rounded := math.Round(raw)
	switch {
	case rounded < minScore:
		return minScore
	case rounded > maxScore:
		return maxScore
	default:
		return Score(rounded)
	}
}

// Calculate normalizes r against DefaultFallback, scores it and finalizes.
func Calculate(r ForecastReading) (Score, Breakdown) {
	b := ScoreBreakdown(Normalize(r, DefaultFallback))
	return Finalize(b.Raw), b
}
