package domain

import (
	"errors"
	"time"
)

// ErrEmptySeries is returned when an hourly series has no points.
var ErrEmptySeries = errors.New("no hourly forecast points in response")

// Location is a WGS-84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HourlySeries is an upstream hourly forecast for one day. The reading slices
// are aligned with Times; nil entries are values the source did not report.
type HourlySeries struct {
	Times         []time.Time
	CloudCoverPct []*float64
	HumidityPct   []*float64
	PM25          []*float64
}

// ReadingAt returns the reading at index i. Slices shorter than Times yield
// absent fields rather than a panic.
func (s HourlySeries) ReadingAt(i int) ForecastReading {
	return ForecastReading{
		CloudCoverPct: at(s.CloudCoverPct, i),
		HumidityPct:   at(s.HumidityPct, i),
		PM25:          at(s.PM25, i),
	}
}

func at(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

// SunsetForecast is the authoritative forecast for one evening.
type SunsetForecast struct {
	Location        Location        `json:"location"`
	Date            string          `json:"date"`
	SunsetJST       time.Time       `json:"sunset_jst"`
	Source          string          `json:"source"`
	Predicted       ForecastReading `json:"predicted"`
	Score           Score           `json:"score"`
	Breakdown       Breakdown       `json:"breakdown"`
	HourlyTimestamp time.Time       `json:"hourly_timestamp"`
	CacheTTLSec     int             `json:"cache_ttl_sec"`
	ComputedAt      time.Time       `json:"computed_at"`
}

// Estimate is the response for an ad-hoc reading scored without I/O.
type Estimate struct {
	Score      Score             `json:"score"`
	Normalized NormalizedReading `json:"normalized"`
	Breakdown  Breakdown         `json:"breakdown"`
	Rounding   string            `json:"rounding"`
}

// NewEstimate scores r with DefaultFallback.
func NewEstimate(r ForecastReading) Estimate {
	n := Normalize(r, DefaultFallback)
	b := ScoreBreakdown(n)
	return Estimate{
		Score:      Finalize(b.Raw),
		Normalized: n,
		Breakdown:  b,
		Rounding:   RoundingPolicy,
	}
}

// NearestIndex returns the index of the time closest to target. Ties resolve
// to the earlier index.
func NearestIndex(times []time.Time, target time.Time) (int, error) {
	if len(times) == 0 {
		return 0, ErrEmptySeries
	}
	best := 0
	bestDiff := absDuration(times[0].Sub(target))
	for i := 1; i < len(times); i++ {
		if d := absDuration(times[i].Sub(target)); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// BuildSunsetForecast selects the hourly point nearest to sunset, scores it
// and stamps the result with the package clock.
func BuildSunsetForecast(loc Location, date string, sunset time.Time, series HourlySeries, source string, cacheTTL time.Duration) (SunsetForecast, error) {
	idx, err := NearestIndex(series.Times, sunset)
	if err != nil {
		return SunsetForecast{}, err
	}
	reading := series.ReadingAt(idx)
	score, breakdown := Calculate(reading)
	return SunsetForecast{
		Location:        loc,
		Date:            date,
		SunsetJST:       sunset,
		Source:          source,
		Predicted:       reading,
		Score:           score,
		Breakdown:       breakdown,
		HourlyTimestamp: series.Times[idx],
		CacheTTLSec:     int(cacheTTL / time.Second),
		ComputedAt:      clock.Now().UTC(),
	}, nil
}
