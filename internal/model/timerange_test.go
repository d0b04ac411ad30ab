package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in   string
		want TimeRange
		dur  time.Duration
	}{
		{"", RangeDay, 24 * time.Hour},
		{"hour", RangeHour, time.Hour},
		{"3HR", RangeThreeHr, 3 * time.Hour},
		{" 6hr ", RangeSixHr, 6 * time.Hour},
		{"12hr", RangeTwelveHr, 12 * time.Hour},
		{"day", RangeDay, 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseTimeRange(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
			assert.Equal(t, tt.dur, r.Duration())
		})
	}

	_, err := ParseTimeRange("week")
	assert.Error(t, err)
	assert.Zero(t, TimeRange("week").Duration())
}
