package aqi

import (
	"math"
	"sort"
	"strconv"

	"github.com/snehareddy22/airaware/internal/dataset"
)

const (
	bandWindow  = 30 // Positional window for the min/max band: last 30 rows, not a calendar window
	trendYears  = 9
	hourlyFloor = 10
)

// MinMaxBand returns the integer min and max AQI over the last 30 rows
// that carry an AQI value (all available rows when fewer exist). ok is
// false when no row qualifies; callers must guard that case.
func MinMaxBand(rows []dataset.Observation) (minAQI, maxAQI int, ok bool) {
	var values []float64
	for i := len(rows) - 1; i >= 0 && len(values) < bandWindow; i-- {
		if rows[i].AQI != nil {
			values = append(values, *rows[i].AQI)
		}
	}
	if len(values) == 0 {
		return 0, 0, false
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return int(lo), int(hi), true
}

// YearlyTrend groups rows by calendar year, averages the AQI per year
// (rounded half away from zero), and keeps the most recent 9 years in
// ascending order. The returned label and value slices are
// index-aligned and equal in length.
func YearlyTrend(rows []dataset.Observation) (years []string, trend []int) {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, row := range rows {
		if row.AQI == nil {
			continue
		}
		year := row.Date.Year()
		sums[year] += *row.AQI
		counts[year]++
	}

	sorted := make([]int, 0, len(sums))
	for year := range sums {
		sorted = append(sorted, year)
	}
	sort.Ints(sorted)
	if len(sorted) > trendYears {
		sorted = sorted[len(sorted)-trendYears:]
	}

	years = make([]string, 0, len(sorted))
	trend = make([]int, 0, len(sorted))
	for _, year := range sorted {
		mean := sums[year] / float64(counts[year])
		years = append(years, strconv.Itoa(year))
		trend = append(trend, int(math.Round(mean)))
	}
	return years, trend
}

// HourlyCurve synthesizes a 24-point diurnal curve from the single
// current AQI estimate using a fixed sinusoidal shape. This is a
// design simplification, not a forecast derived from sub-daily
// measurements.
func HourlyCurve(now int) []int {
	base := float64(now)
	if base < hourlyFloor {
		base = hourlyFloor
	}

	curve := make([]int, 24)
	for h := 0; h < 24; h++ {
		factor := 0.85 + 0.25*math.Sin(float64(h)/24*2*math.Pi)
		value := base * factor
		if value < hourlyFloor {
			value = hourlyFloor
		}
		curve[h] = int(value)
	}
	return curve
}

// Projections applies fixed multiplicative growth assumptions to the
// current estimate. Like the hourly curve these are not model-derived.
func Projections(now int) (y1, y5 int) {
	return int(float64(now) * 1.06), int(float64(now) * 1.18)
}
