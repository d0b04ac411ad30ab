package calculator

import (
	"errors"
	"math"
)

// SeriesRange returns the lowest and highest value of a series.
func SeriesRange(values []float64) (low, high float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, v := range values {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	return low, high, nil
}

// SymmetricBound returns the smallest bound b such that every value lies in
// [-b, b], never less than floor. Sentiment axes stay centred on zero.
func SymmetricBound(values []float64, floor float64) float64 {
	low, high, err := SeriesRange(values)
	if err != nil {
		return floor
	}
	b := math.Max(math.Abs(low), math.Abs(high))
	if b < floor {
		return floor
	}
	return b
}
