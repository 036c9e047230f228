package aqi

import (
	"fmt"
	"math"

	"github.com/snehareddy22/airaware/internal/dataset"
	"github.com/snehareddy22/airaware/pkg/logger"
)

// Dashboard is the aggregate record returned per dashboard request.
// It is constructed fresh per request and never persisted.
type Dashboard struct {
	City string  `json:"city"`
	PM25 float64 `json:"pm25"`
	CO   float64 `json:"co"`
	NO2  float64 `json:"no2"`

	Now    int `json:"now"`
	MinAQI int `json:"min_aqi"`
	MaxAQI int `json:"max_aqi"`

	Hourly []int    `json:"hourly"`
	Years  []string `json:"years"`
	Trend  []int    `json:"trend"`

	Y1 int `json:"y1"`
	Y5 int `json:"y5"`
}

// Service runs the full estimation pipeline for one city: dataset
// filtering, feature extraction, model inference, and derived-metric
// synthesis.
type Service struct {
	store     *dataset.Store
	predictor Predictor
	logger    *logger.Logger
}

// NewService creates a new AQI pipeline service.
func NewService(store *dataset.Store, predictor Predictor, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		predictor: predictor,
		logger:    log.Named("aqi-service"),
	}
}

// Dashboard builds the dashboard record for the requested city name.
// Dataset errors pass through unwrapped so the API boundary can map
// dataset.ErrNoCityData and dataset.ErrNoPollutionData to distinct
// messages.
func (s *Service) Dashboard(city string) (*Dashboard, error) {
	normalized := dataset.NormalizeCityName(city, s.store.Fallback())
	canonical := dataset.CanonicalCity(normalized)

	rows, err := s.store.CityData(canonical)
	if err != nil {
		return nil, err
	}

	latest, err := dataset.LatestComplete(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", dataset.ErrNoPollutionData, canonical)
	}

	pm25 := *latest.PM25
	co := *latest.CO
	no2 := *latest.NO2

	now, err := EstimateAQI(s.predictor, pm25, co, no2)
	if err != nil {
		return nil, fmt.Errorf("model inference failed: %w", err)
	}

	minAQI, maxAQI, ok := MinMaxBand(rows)
	if !ok {
		// CityData only returns rows with AQI present, so an empty band
		// cannot happen after a successful load.
		return nil, fmt.Errorf("%w: %s", dataset.ErrNoCityData, canonical)
	}

	years, trend := YearlyTrend(rows)
	y1, y5 := Projections(now)

	s.logger.Debug("Built dashboard",
		logger.String("city", canonical),
		logger.Int("rows", len(rows)),
		logger.Int("now", now))

	return &Dashboard{
		City:   canonical,
		PM25:   round2(pm25),
		CO:     round2(co),
		NO2:    round2(no2),
		Now:    now,
		MinAQI: minAQI,
		MaxAQI: maxAQI,
		Hourly: HourlyCurve(now),
		Years:  years,
		Trend:  trend,
		Y1:     y1,
		Y5:     y5,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
