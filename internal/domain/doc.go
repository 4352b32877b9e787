// Package domain models the sunset-quality score and the forecast data it is
// computed from.
//
// # Forecast Readings
//
// A reading is three environmental measurements taken for the hour closest to
// sunset at a fixed location:
//
//	cloud cover   percent of sky covered, expected 0–100
//	humidity      relative humidity at 2 m, percent, expected 0–100
//	PM2.5         particulate concentration, µg/m³, expected ≥ 0
//
// Any of the three may be missing upstream (the air-quality feed in particular
// lags the weather feed by a few hours). Missing or non-finite values are
// never an error: [Normalize] substitutes a fixed fallback per field. Values
// outside the expected range are passed through unchanged.
//
// # Score
//
// The score is the sum of three weighted terms plus a constant baseline:
//
//	cloud     max(0, 35 - |45 - cover| * 0.7)        peaks at 45% cover
//	humidity  max(0, 20 - max(0, humidity - 55) * 0.5)
//	pm2.5     max(0, 30 - max(0, pm25 - 12) * 2)
//	baseline  15                                     wind, visibility, etc.
//
// [Finalize] rounds half-up (math.Round, which agrees with half-up on the
// clamped range) and clamps to [0, 100]. A non-finite raw score finalizes
// to 0.
//
// The same formula runs in the browser as an estimate; both implementations
// are checked against testdata/score_vectors.json.
package domain
