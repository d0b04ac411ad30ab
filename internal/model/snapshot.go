package model

import "time"

// SeriesSnapshot is one collection pass for a single token.
type SeriesSnapshot struct {
	Coin      string
	Samples   []SentimentSample
	View      *SentimentSeriesViewModel
	FetchedAt time.Time
}
