package domain

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		reading  ForecastReading
		expected NormalizedReading
	}{
		{"all absent", ForecastReading{}, NormalizedReading{60, 65, 12}},
		{"all present", ForecastReading{Ptr(42), Ptr(68), Ptr(7.4)}, NormalizedReading{42, 68, 7.4}},
		{"NaN pm25", ForecastReading{Ptr(42), Ptr(68), Ptr(math.NaN())}, NormalizedReading{42, 68, 12}},
		{"+Inf cloud", ForecastReading{Ptr(math.Inf(1)), Ptr(50), Ptr(5)}, NormalizedReading{60, 50, 5}},
		{"-Inf humidity", ForecastReading{Ptr(45), Ptr(math.Inf(-1)), Ptr(5)}, NormalizedReading{45, 65, 5}},
		{"out of range passes through", ForecastReading{Ptr(-10), Ptr(-5), Ptr(500)}, NormalizedReading{-10, -5, 500}},
		{"zero is not absent", ForecastReading{Ptr(0), Ptr(0), Ptr(0)}, NormalizedReading{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.reading, DefaultFallback))
		})
	}
}

func TestNormalize_CustomFallback(t *testing.T) {
	fb := Fallback{CloudCoverPct: 1, HumidityPct: 2, PM25: 3}
	assert.Equal(t, NormalizedReading{1, 2, 3}, Normalize(ForecastReading{}, fb))
}

func TestTerms(t *testing.T) {
	t.Run("cloud", func(t *testing.T) {
		assert.InDelta(t, 35.0, CloudTerm(45), 1e-9)
		assert.InDelta(t, 32.9, CloudTerm(42), 1e-9)
		assert.InDelta(t, 24.5, CloudTerm(60), 1e-9)
		assert.InDelta(t, 24.5, CloudTerm(30), 1e-9)
		assert.Equal(t, 0.0, CloudTerm(100))
		assert.Equal(t, 0.0, CloudTerm(-100))
	})

	t.Run("humidity", func(t *testing.T) {
		assert.Equal(t, 20.0, HumidityTerm(55))
		assert.Equal(t, 20.0, HumidityTerm(0))
		assert.Equal(t, 20.0, HumidityTerm(-40))
		assert.Equal(t, 13.5, HumidityTerm(68))
		assert.Equal(t, 0.0, HumidityTerm(95))
		assert.Equal(t, 0.0, HumidityTerm(100))
	})

	t.Run("pm25", func(t *testing.T) {
		assert.Equal(t, 30.0, PMTerm(12))
		assert.Equal(t, 30.0, PMTerm(7.4))
		assert.Equal(t, 30.0, PMTerm(-3))
		assert.Equal(t, 28.0, PMTerm(13))
		assert.Equal(t, 0.0, PMTerm(27))
		assert.Equal(t, 0.0, PMTerm(100))
	})
}

func TestScoreBreakdown_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		reading  ForecastReading
		cloud    float64
		humidity float64
		pm       float64
		raw      float64
		score    Score
	}{
		{"ideal", ForecastReading{Ptr(45), Ptr(50), Ptr(10)}, 35, 20, 30, 100, 100},
		{"sample forecast", ForecastReading{Ptr(42), Ptr(68), Ptr(7.4)}, 32.9, 13.5, 30, 91.4, 91},
		{"all absent", ForecastReading{}, 24.5, 15, 30, 84.5, 85},
		{"saturated", ForecastReading{Ptr(100), Ptr(100), Ptr(100)}, 0, 0, 0, 15, 15},
		{"NaN pm25 falls back", ForecastReading{Ptr(45), Ptr(50), Ptr(math.NaN())}, 35, 20, 30, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, b := Calculate(tt.reading)
			assert.InDelta(t, tt.cloud, b.Cloud, 1e-9)
			assert.InDelta(t, tt.humidity, b.Humidity, 1e-9)
			assert.InDelta(t, tt.pm, b.PM25, 1e-9)
			assert.Equal(t, Baseline, b.Baseline)
			assert.InDelta(t, tt.raw, b.Raw, 1e-9)
			assert.Equal(t, tt.score, score)
		})
	}
}

func TestRawScore_MissingEqualsFallback(t *testing.T) {
	missing := RawScore(Normalize(ForecastReading{HumidityPct: Ptr(50), PM25: Ptr(5)}, DefaultFallback))
	explicit := RawScore(Normalize(ForecastReading{Ptr(60), Ptr(50), Ptr(5)}, DefaultFallback))
	assert.Equal(t, explicit, missing)
}

func TestRawScore_TermOrderIndependent(t *testing.T) {
	n := NormalizedReading{CloudCoverPct: 42, HumidityPct: 68, PM25: 7.4}
	c, h, p := CloudTerm(n.CloudCoverPct), HumidityTerm(n.HumidityPct), PMTerm(n.PM25)

	orders := []float64{
		c + h + p + Baseline,
		Baseline + p + h + c,
		h + Baseline + c + p,
		p + c + Baseline + h,
	}
	for _, sum := range orders {
		assert.InDelta(t, RawScore(n), sum, 1e-9)
	}
}

func TestCloudTerm_Monotonic(t *testing.T) {
	for cover := 45.0; cover < 94; cover++ {
		assert.Greater(t, CloudTerm(cover), CloudTerm(cover+1), "above 45 at %v", cover)
	}
	for cover := 45.0; cover > -4; cover-- {
		assert.Greater(t, CloudTerm(cover), CloudTerm(cover-1), "below 45 at %v", cover)
	}
}

func TestHumidityAndPMTerms_NonIncreasing(t *testing.T) {
	for h := 55.0; h < 200; h += 0.5 {
		assert.LessOrEqual(t, HumidityTerm(h+0.5), HumidityTerm(h))
	}
	for p := 12.0; p < 200; p += 0.25 {
		assert.LessOrEqual(t, PMTerm(p+0.25), PMTerm(p))
	}
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		expected Score
	}{
		{"exact integer", 91, 91},
		{"rounds down", 91.4, 91},
		{"half rounds up", 84.5, 85},
		{"even half rounds up", 82.5, 83},
		{"just below half", 84.49, 84},
		{"largest double below half", 0.49999999999999994, 0},
		{"largest double below 84.5", math.Nextafter(84.5, 0), 84},
		{"above range", 140, 100},
		{"boundary 100", 100, 100},
		{"99.5 rounds to 100", 99.5, 100},
		{"negative", -12, 0},
		{"small negative half", -0.5, 0},
		{"NaN", math.NaN(), 0},
		{"+Inf", math.Inf(1), 0},
		{"-Inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Finalize(tt.raw))
		})
	}
}

func TestCalculate_Bounded(t *testing.T) {
	values := []float64{-1e9, -100, -0.5, 0, 12, 45, 55, 99.9, 100, 250, 1e9}
	for _, c := range values {
		for _, h := range values {
			for _, p := range values {
				score, _ := Calculate(ForecastReading{Ptr(c), Ptr(h), Ptr(p)})
				assert.GreaterOrEqual(t, int(score), 0)
				assert.LessOrEqual(t, int(score), 100)
			}
		}
	}
}

func TestNewEstimate(t *testing.T) {
	est := NewEstimate(ForecastReading{CloudCoverPct: Ptr(42)})

	assert.Equal(t, RoundingPolicy, est.Rounding)
	assert.Equal(t, NormalizedReading{42, 65, 12}, est.Normalized)
	assert.InDelta(t, 92.9, est.Breakdown.Raw, 1e-9)
	assert.Equal(t, Score(93), est.Score)
}

func TestVectorTable(t *testing.T) {
	f, err := os.Open("testdata/score_vectors.json")
	require.NoError(t, err)
	defer f.Close()

	table, err := ReadVectorTable(f)
	require.NoError(t, err)
	require.NotEmpty(t, table.Vectors)

	mismatches, err := table.Verify()
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestBuiltinVectorTable_MatchesFile(t *testing.T) {
	builtin, err := BuiltinVectorTable()
	require.NoError(t, err)

	f, err := os.Open("testdata/score_vectors.json")
	require.NoError(t, err)
	defer f.Close()
	onDisk, err := ReadVectorTable(f)
	require.NoError(t, err)

	assert.Equal(t, onDisk, builtin)
	mismatches, err := builtin.Verify()
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestVectorTable_DetectsDrift(t *testing.T) {
	table := VectorTable{
		Rounding: RoundingPolicy,
		Vectors: []ScoreVector{
			{Name: "ok", Input: ForecastReading{Ptr(45), Ptr(50), Ptr(10)}, Raw: 100, Score: 100},
			{Name: "drifted", Input: ForecastReading{}, Raw: 84.5, Score: 84},
		},
	}

	mismatches, err := table.Verify()
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "drifted", mismatches[0].Name)
	assert.Equal(t, Score(85), mismatches[0].GotScore)
	assert.Contains(t, mismatches[0].String(), "score want 84 got 85")
}

func TestVectorTable_RejectsOtherRounding(t *testing.T) {
	_, err := VectorTable{Rounding: "half-even"}.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "half-even")
}
