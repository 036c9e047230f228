package aqi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehareddy22/airaware/internal/dataset"
)

func obs(year, month, day int, aqi float64) dataset.Observation {
	return dataset.Observation{
		City: "Delhi",
		Date: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		AQI:  &aqi,
	}
}

func TestMinMaxBand(t *testing.T) {
	t.Run("fewer rows than the window", func(t *testing.T) {
		rows := []dataset.Observation{
			obs(2020, 1, 1, 120),
			obs(2020, 1, 2, 80),
			obs(2020, 1, 3, 200),
		}
		lo, hi, ok := MinMaxBand(rows)
		require.True(t, ok)
		assert.Equal(t, 80, lo)
		assert.Equal(t, 200, hi)
	})

	t.Run("only the last 30 rows count", func(t *testing.T) {
		rows := make([]dataset.Observation, 0, 40)
		// A spike outside the window must not widen the band.
		rows = append(rows, obs(2019, 1, 1, 999))
		for d := 0; d < 39; d++ {
			rows = append(rows, obs(2020, 1, 1+d%28, 100+float64(d)))
		}
		lo, hi, ok := MinMaxBand(rows)
		require.True(t, ok)
		assert.Equal(t, 109, lo)
		assert.Equal(t, 138, hi)
	})

	t.Run("rows without AQI are skipped", func(t *testing.T) {
		rows := []dataset.Observation{
			obs(2020, 1, 1, 150),
			{City: "Delhi", Date: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)},
		}
		lo, hi, ok := MinMaxBand(rows)
		require.True(t, ok)
		assert.Equal(t, 150, lo)
		assert.Equal(t, 150, hi)
	})

	t.Run("no qualifying rows", func(t *testing.T) {
		_, _, ok := MinMaxBand([]dataset.Observation{
			{City: "Delhi", Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		})
		assert.False(t, ok)
	})
}

func TestYearlyTrend(t *testing.T) {
	t.Run("averages per year and rounds half away from zero", func(t *testing.T) {
		rows := []dataset.Observation{
			obs(2019, 1, 1, 100),
			obs(2019, 6, 1, 101), // mean 100.5 rounds to 101
			obs(2020, 1, 1, 200),
		}
		years, trend := YearlyTrend(rows)
		require.Equal(t, []string{"2019", "2020"}, years)
		require.Equal(t, []int{101, 200}, trend)
	})

	t.Run("keeps the most recent nine years ascending", func(t *testing.T) {
		var rows []dataset.Observation
		for y := 2009; y <= 2020; y++ {
			rows = append(rows, obs(y, 1, 1, float64(y-2000)))
		}
		years, trend := YearlyTrend(rows)
		require.Len(t, years, 9)
		require.Len(t, trend, 9)
		assert.Equal(t, "2012", years[0])
		assert.Equal(t, "2020", years[8])
		for i := 1; i < len(years); i++ {
			assert.Less(t, years[i-1], years[i])
		}
	})

	t.Run("empty input yields empty slices", func(t *testing.T) {
		years, trend := YearlyTrend(nil)
		assert.Empty(t, years)
		assert.Empty(t, trend)
	})
}

func TestHourlyCurve(t *testing.T) {
	t.Run("shape", func(t *testing.T) {
		curve := HourlyCurve(100)
		require.Len(t, curve, 24)
		// factor is 0.85 at midnight and peaks at 1.10 at hour 6
		assert.Equal(t, 85, curve[0])
		assert.Equal(t, 110, curve[6])
		for _, v := range curve {
			assert.GreaterOrEqual(t, v, 10)
		}
	})

	t.Run("low estimates are floored", func(t *testing.T) {
		for _, v := range HourlyCurve(0) {
			assert.GreaterOrEqual(t, v, 10)
		}
	})
}

func TestProjections(t *testing.T) {
	y1, y5 := Projections(100)
	assert.Equal(t, 106, y1)
	assert.Equal(t, 118, y5)

	// Truncation, not rounding
	y1, y5 = Projections(33)
	assert.Equal(t, 34, y1) // 33 * 1.06 = 34.98
	assert.Equal(t, 38, y5) // 33 * 1.18 = 38.94
}
