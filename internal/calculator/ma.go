package calculator

import (
	"errors"

	"SentimentSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	return mean(values[len(values)-period:]), nil
}

// RollingSMA computes the trailing simple moving average at every index.
// Entries before the first full window are left invalid.
func RollingSMA(values []float64, window int) ([]model.TrendPoint, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	points := make([]model.TrendPoint, len(values))
	for i := window - 1; i < len(values); i++ {
		// Each window is summed on its own; a running sum drifts and would
		// break window == 1 reproducing the input exactly.
		v, err := CalculateSMA(values[:i+1], window)
		if err != nil {
			return nil, err
		}
		points[i] = model.TrendValue(v)
	}
	return points, nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
