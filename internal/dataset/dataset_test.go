package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehareddy22/airaware/pkg/logger"
)

func TestNormalizeCityName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "delhi", "Delhi"},
		{"padded", "  delhi  ", "Delhi"},
		{"mixed case two words", "nEw dELhi", "New Delhi"},
		{"strips digits and punctuation", "Mumbai-2020!", "Mumbai"},
		{"already normalized", "Chennai", "Chennai"},
		{"empty falls back", "", "Delhi"},
		{"only symbols falls back", "123!@#", "Delhi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCityName(tt.input, "Delhi"))
		})
	}
}

func TestNormalizeCityNameIdempotent(t *testing.T) {
	once := NormalizeCityName(" new delhi 1 ", "Delhi")
	twice := NormalizeCityName(once, "Delhi")
	assert.Equal(t, once, twice)
}

func TestCanonicalCity(t *testing.T) {
	assert.Equal(t, "Delhi", CanonicalCity("New Delhi"))
	assert.Equal(t, "Delhi", CanonicalCity("new delhi"))
	assert.Equal(t, "Mumbai", CanonicalCity("Mumbai"))
	assert.Equal(t, "Delhi", CanonicalCity("Delhi"))
}

const sampleCSV = `City,Date,PM2.5,PM10,NO,NO2,NOx,NH3,CO,SO2,O3,Benzene,Toluene,Xylene,AQI,AQI_Bucket
Delhi,2020-01-03,110.5,200.1,10,45.2,50,20,1.8,15,30,1,2,0.5,310,Very Poor
Delhi,2020-01-01,95.2,180.0,9,40.0,48,18,1.5,14,28,1,2,0.4,290,Poor
Delhi,2020-01-02,,190.0,9,42.0,49,19,,14,29,1,2,0.4,300,Very Poor
Delhi,not-a-date,90.0,170.0,8,38.0,45,17,1.2,13,27,1,2,0.3,280,Poor
Delhi,2020-01-04,100.0,185.0,9,41.0,47,18,1.6,14,28,1,2,0.4,,
Mumbai,2020-01-01,55.3,120.0,5,22.1,30,10,0.9,8,20,0.5,1,0.2,140,Moderate
`

func TestParse(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	// Bad-date and missing-AQI rows are dropped; the row with missing
	// pollutants but a present AQI survives.
	require.Len(t, rows, 4)

	t.Run("missing pollutants parse to nil", func(t *testing.T) {
		var found bool
		for _, row := range rows {
			if row.City == "Delhi" && row.Date.Day() == 2 {
				found = true
				assert.Nil(t, row.PM25)
				assert.Nil(t, row.CO)
				assert.NotNil(t, row.AQI)
				assert.False(t, row.Complete())
			}
		}
		assert.True(t, found)
	})

	t.Run("complete rows report complete", func(t *testing.T) {
		for _, row := range rows {
			if row.City == "Mumbai" {
				assert.True(t, row.Complete())
			}
		}
	})
}

func TestParseMissingColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("City,Date,PM2.5\nDelhi,2020-01-01,95.2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestParseTimestampDates(t *testing.T) {
	csv := "City,Date,PM2.5,CO,NO2,AQI\nDelhi,2020-01-01 00:00:00,95.2,1.5,40.0,290\n"
	rows, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2020, rows[0].Date.Year())
}

func writeTempDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "city_day.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestStoreCityData(t *testing.T) {
	store := NewStore(writeTempDataset(t, sampleCSV), "Delhi", logger.NewNop())

	t.Run("filters and sorts ascending by date", func(t *testing.T) {
		rows, err := store.CityData("Delhi")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		for i := 1; i < len(rows); i++ {
			assert.True(t, rows[i-1].Date.Before(rows[i].Date))
		}
	})

	t.Run("matches case-insensitively", func(t *testing.T) {
		rows, err := store.CityData("mumbai")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Mumbai", rows[0].City)
	})

	t.Run("maps the capital alias", func(t *testing.T) {
		rows, err := store.CityData("New Delhi")
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("unknown city returns ErrNoCityData", func(t *testing.T) {
		_, err := store.CityData("Atlantis")
		require.ErrorIs(t, err, ErrNoCityData)
	})
}

func TestLatestComplete(t *testing.T) {
	store := NewStore(writeTempDataset(t, sampleCSV), "Delhi", logger.NewNop())
	rows, err := store.CityData("Delhi")
	require.NoError(t, err)

	latest, err := LatestComplete(rows)
	require.NoError(t, err)
	// 2020-01-03 is the last complete row: the 01-02 row is missing
	// pollutants and the 01-04 row was dropped for its missing AQI.
	assert.Equal(t, 3, latest.Date.Day())
	assert.Equal(t, 110.5, *latest.PM25)
}

func TestLatestCompleteNoQualifyingRow(t *testing.T) {
	v := 100.0
	rows := []Observation{{City: "Delhi", AQI: &v}}
	_, err := LatestComplete(rows)
	require.ErrorIs(t, err, ErrNoPollutionData)
}
