package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange names one of the lookback windows the dashboard offers.
type TimeRange string

const (
	RangeHour     TimeRange = "hour"
	RangeThreeHr  TimeRange = "3hr"
	RangeSixHr    TimeRange = "6hr"
	RangeTwelveHr TimeRange = "12hr"
	RangeDay      TimeRange = "day"
)

// TimeRanges lists the accepted ranges, shortest first.
var TimeRanges = []TimeRange{RangeHour, RangeThreeHr, RangeSixHr, RangeTwelveHr, RangeDay}

var rangeDurations = map[TimeRange]time.Duration{
	RangeHour:     time.Hour,
	RangeThreeHr:  3 * time.Hour,
	RangeSixHr:    6 * time.Hour,
	RangeTwelveHr: 12 * time.Hour,
	RangeDay:      24 * time.Hour,
}

// ParseTimeRange accepts a range name case-insensitively. An empty string
// means RangeDay.
func ParseTimeRange(s string) (TimeRange, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RangeDay, nil
	}
	r := TimeRange(s)
	if _, ok := rangeDurations[r]; !ok {
		return "", fmt.Errorf("unknown time range %q", s)
	}
	return r, nil
}

// Duration is how far back the range reaches, or 0 for an unknown range.
func (r TimeRange) Duration() time.Duration {
	return rangeDurations[r]
}

// TokenScore ranks a token over a time range: the summed label weights
// scaled by the share of distinct authors among its mentions.
type TokenScore struct {
	Coin  string  `json:"coin_name"`
	Score float64 `json:"score"`
}
