// Package aqi implements the AQI estimation pipeline: model inference
// over the latest pollutant readings plus the derived dashboard metrics
// (historical band, yearly trend, hourly curve, projections).
package aqi

// Predictor is the opaque regression model boundary. The serving
// pipeline never re-derives the training algorithm; it only needs a
// scalar estimate from a feature vector.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// EstimateAQI runs the model on the fixed [PM2.5, CO, NO2] feature
// order and returns the estimate floor-clamped at zero and truncated
// toward zero.
func EstimateAQI(p Predictor, pm25, co, no2 float64) (int, error) {
	pred, err := p.Predict([]float64{pm25, co, no2})
	if err != nil {
		return 0, err
	}
	if pred < 0 {
		return 0, nil
	}
	return int(pred), nil
}
