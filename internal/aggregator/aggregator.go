// Package aggregator turns hourly sentiment samples into chart view models.
package aggregator

import (
	"errors"
	"fmt"
	"time"

	"SentimentSentinel/internal/calculator"
	"SentimentSentinel/internal/model"
)

// DefaultWindowSize is the moving-average window used by the dashboard.
const DefaultWindowSize = 3

// DefaultLabelLayout renders an hour bucket as "2006-01-02 15:00". Labels in
// this layout sort the same way as the hours they name.
const DefaultLabelLayout = "2006-01-02 15:00"

// HourOnlyLayout is the dashboard's compact "15:00" label. It repeats once a
// series crosses midnight.
const HourOnlyLayout = "15:00"

// ErrInvalidArgument is returned for a window size below one.
var ErrInvalidArgument = errors.New("invalid argument")

// Aggregator formats labels in a fixed location and layout. The zero value
// uses UTC and DefaultLabelLayout.
type Aggregator struct {
	Location    *time.Location
	LabelLayout string
}

// DefaultAggregator backs the package-level Aggregate.
var DefaultAggregator = Aggregator{Location: time.UTC, LabelLayout: DefaultLabelLayout}

// Aggregate builds a view model with DefaultAggregator.
func Aggregate(samples []model.SentimentSample, windowSize int) (*model.SentimentSeriesViewModel, error) {
	return DefaultAggregator.Aggregate(samples, windowSize)
}

// Aggregate builds the view model for samples, which must already be in
// ascending hour order. The input is never modified or reordered.
func (a Aggregator) Aggregate(samples []model.SentimentSample, windowSize int) (*model.SentimentSeriesViewModel, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("%w: window size must be >= 1, got %d", ErrInvalidArgument, windowSize)
	}

	n := len(samples)
	view := &model.SentimentSeriesViewModel{
		Labels:       make([]string, n),
		RawSeries:    make([]float64, n),
		VolumeSeries: make([]int, n),
	}
	for i, s := range samples {
		view.Labels[i] = a.label(s.Hour)
		view.RawSeries[i] = s.AvgSentiment
		view.VolumeSeries[i] = s.NTweets
	}

	trend, err := calculator.RollingSMA(view.RawSeries, windowSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	view.TrendSeries = trend
	return view, nil
}

func (a Aggregator) label(hour time.Time) string {
	loc := a.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := a.LabelLayout
	if layout == "" {
		layout = DefaultLabelLayout
	}
	return hour.In(loc).Format(layout)
}
