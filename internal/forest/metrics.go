package forest

import "fmt"

// MAE returns the mean absolute error of predictions against truth.
func MAE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) || len(predicted) == 0 {
		return 0, fmt.Errorf("invalid series lengths: %d vs %d", len(predicted), len(actual))
	}
	sum := 0.0
	for i := range predicted {
		diff := predicted[i] - actual[i]
		if diff < 0 {
			diff = -diff
		}
		sum += diff
	}
	return sum / float64(len(predicted)), nil
}

// R2 returns the coefficient of determination of predictions against
// truth. A constant actual series yields an error rather than a
// division by zero.
func R2(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) || len(predicted) == 0 {
		return 0, fmt.Errorf("invalid series lengths: %d vs %d", len(predicted), len(actual))
	}

	mean := 0.0
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i := range actual {
		res := actual[i] - predicted[i]
		tot := actual[i] - mean
		ssRes += res * res
		ssTot += tot * tot
	}
	if ssTot == 0 {
		return 0, fmt.Errorf("actual values are constant, R2 undefined")
	}
	return 1 - ssRes/ssTot, nil
}
