package model

import (
	"bytes"
	"encoding/json"
)

// TrendPoint is one entry of a moving-average series. Points before the
// window fills are not Valid and carry no value.
type TrendPoint struct {
	Value float64
	Valid bool
}

// TrendValue returns a valid point holding v.
func TrendValue(v float64) TrendPoint {
	return TrendPoint{Value: v, Valid: true}
}

// MarshalJSON encodes an invalid point as null so charts draw a gap.
func (p TrendPoint) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON reads null back as an invalid point and a number as a
// valid one.
func (p *TrendPoint) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = TrendPoint{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = TrendValue(v)
	return nil
}

// SentimentSeriesViewModel is the display-ready form of a sample sequence.
// All four series have the same length and index the same hour.
type SentimentSeriesViewModel struct {
	Labels       []string     `json:"labels"`
	RawSeries    []float64    `json:"rawSeries"`
	TrendSeries  []TrendPoint `json:"trendSeries"`
	VolumeSeries []int        `json:"volumeSeries"`
}

// Len returns the number of hours in the view model.
func (v *SentimentSeriesViewModel) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Labels)
}

// Empty reports whether there is nothing to draw.
func (v *SentimentSeriesViewModel) Empty() bool {
	return v.Len() == 0
}

// LatestTrend returns the last valid trend point, if any.
func (v *SentimentSeriesViewModel) LatestTrend() (float64, bool) {
	if v == nil {
		return 0, false
	}
	for i := len(v.TrendSeries) - 1; i >= 0; i-- {
		if v.TrendSeries[i].Valid {
			return v.TrendSeries[i].Value, true
		}
	}
	return 0, false
}

// TotalMentions sums the volume series.
func (v *SentimentSeriesViewModel) TotalMentions() int {
	if v == nil {
		return 0
	}
	total := 0
	for _, n := range v.VolumeSeries {
		total += n
	}
	return total
}
