// Package dataset resolves city names to their historical pollutant
// observation sequences from the city_day.csv dataset.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/snehareddy22/airaware/pkg/logger"
)

// Sentinel errors distinguish "unknown city" from "city present but no
// complete readings" so the API can answer with different messages.
var (
	ErrNoCityData      = fmt.Errorf("no data for city")
	ErrNoPollutionData = fmt.Errorf("no pollution values")
)

// Observation is a single daily pollutant/AQI reading for one city.
// Pointer fields are nil when the source row left the column empty.
type Observation struct {
	City string    `json:"city"`
	Date time.Time `json:"date"`
	PM25 *float64  `json:"pm25"`
	CO   *float64  `json:"co"`
	NO2  *float64  `json:"no2"`
	AQI  *float64  `json:"aqi"`
}

// Complete reports whether all four numeric fields are present.
func (o Observation) Complete() bool {
	return o.PM25 != nil && o.CO != nil && o.NO2 != nil && o.AQI != nil
}

var nonCityChars = regexp.MustCompile(`[^a-zA-Z ]`)

// NormalizeCityName strips non-alphabetic characters (keeping spaces),
// trims, and title-cases the input. An empty result falls back to the
// given default city. The transformation is idempotent.
func NormalizeCityName(name, fallback string) string {
	cleaned := strings.TrimSpace(nonCityChars.ReplaceAllString(name, ""))
	if cleaned == "" {
		return fallback
	}
	return titleCase(cleaned)
}

// CanonicalCity maps the capital's UI alternate name to its dataset
// label. Every other name passes through unchanged.
func CanonicalCity(name string) string {
	if strings.EqualFold(name, "new delhi") {
		return "Delhi"
	}
	return name
}

// titleCase capitalizes the first letter of each space-separated word
// and lowercases the rest, matching how the dataset labels its cities.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Store reads city observation sequences from a CSV dataset. The file
// is re-read on every call; requests always see the file as it is on
// disk and no cross-request state accumulates.
type Store struct {
	path     string
	fallback string
	logger   *logger.Logger
}

// NewStore creates a dataset store backed by the CSV at path. The path
// must already be resolved (and verified to exist) by startup code.
func NewStore(path, fallbackCity string, log *logger.Logger) *Store {
	return &Store{
		path:     path,
		fallback: fallbackCity,
		logger:   log.Named("dataset"),
	}
}

// Fallback returns the store's default city name.
func (s *Store) Fallback() string {
	return s.fallback
}

// CityData loads the observation sequence for the given (already
// normalized) city name: rows matching the city case-insensitively,
// with parseable dates and a present AQI, sorted ascending by date.
// Returns ErrNoCityData when nothing remains.
func (s *Store) CityData(city string) ([]Observation, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	rows, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	canonical := CanonicalCity(city)
	filtered := make([]Observation, 0)
	for _, row := range rows {
		if !strings.EqualFold(row.City, canonical) {
			continue
		}
		// Rows with unparseable dates or no AQI were already dropped
		// during parsing.
		filtered = append(filtered, row)
	}

	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCityData, canonical)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.Before(filtered[j].Date)
	})

	s.logger.Debug("Loaded city dataset",
		logger.String("city", canonical),
		logger.Int("rows", len(filtered)))

	return filtered, nil
}

// LatestComplete returns the chronologically last observation that has
// all of PM2.5, CO, NO2 and AQI. Returns ErrNoPollutionData when no row
// qualifies.
func LatestComplete(rows []Observation) (Observation, error) {
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Complete() {
			return rows[i], nil
		}
	}
	return Observation{}, ErrNoPollutionData
}

// Parse reads the full dataset from r. Rows with unparseable dates or a
// missing AQI are dropped; missing pollutant values parse to nil.
// Duplicate dates pass through silently.
func Parse(r io.Reader) ([]Observation, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"City", "Date", "PM2.5", "CO", "NO2", "AQI"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataset missing required column: %s", required)
		}
	}

	var observations []Observation
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}

		date, err := parseDate(field(record, cols["Date"]))
		if err != nil {
			continue
		}

		obs := Observation{
			City: strings.TrimSpace(field(record, cols["City"])),
			Date: date,
			PM25: parseFloat(field(record, cols["PM2.5"])),
			CO:   parseFloat(field(record, cols["CO"])),
			NO2:  parseFloat(field(record, cols["NO2"])),
			AQI:  parseFloat(field(record, cols["AQI"])),
		}
		if obs.AQI == nil {
			continue
		}

		observations = append(observations, obs)
	}

	return observations, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseDate accepts the dataset's date-only format plus a timestamp
// variant seen in some exports.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
