package domain

import "math"

// Fallback values substituted for missing or non-finite reading fields.
const (
	FallbackCloudCoverPct = 60.0
	FallbackHumidityPct   = 65.0
	FallbackPM25          = 12.0
)

// ForecastReading is a forecast snapshot as supplied by the caller. A nil
// field means the upstream source did not report it.
type ForecastReading struct {
	CloudCoverPct *float64 `json:"cloudCover_pct"`
	HumidityPct   *float64 `json:"humidity_pct"`
	PM25          *float64 `json:"pm25_ugm3"`
}

// NormalizedReading holds finite values for every field.
type NormalizedReading struct {
	CloudCoverPct float64 `json:"cloudCover_pct"`
	HumidityPct   float64 `json:"humidity_pct"`
	PM25          float64 `json:"pm25_ugm3"`
}

// Fallback is the table of per-field defaults used by Normalize.
type Fallback struct {
	CloudCoverPct float64
	HumidityPct   float64
	PM25          float64
}

// DefaultFallback is the fallback table used by Calculate.
var DefaultFallback = Fallback{
	CloudCoverPct: FallbackCloudCoverPct,
	HumidityPct:   FallbackHumidityPct,
	PM25:          FallbackPM25,
}

// Normalize replaces absent or non-finite fields with the fallback value.
// Finite values are passed through without clamping.
func Normalize(r ForecastReading, fb Fallback) NormalizedReading {
	return NormalizedReading{
		CloudCoverPct: valueOr(r.CloudCoverPct, fb.CloudCoverPct),
		HumidityPct:   valueOr(r.HumidityPct, fb.HumidityPct),
		PM25:          valueOr(r.PM25, fb.PM25),
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return fallback
	}
	return *v
}

// Ptr returns a pointer to v, for building readings inline.
func Ptr(v float64) *float64 {
	return &v
}
