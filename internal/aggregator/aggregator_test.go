package aggregator

import (
	"encoding/json"
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"
	"testing/quick"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentimentSentinel/internal/model"
)

var baseHour = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func samplesFrom(values []float64) []model.SentimentSample {
	out := make([]model.SentimentSample, len(values))
	for i, v := range values {
		out[i] = model.SentimentSample{
			Hour:         baseHour.Add(time.Duration(i) * time.Hour),
			AvgSentiment: v,
			NTweets:      10 + i,
		}
	}
	return out
}

// sampleSeq generates random ordered sample sequences of length 0..1000.
type sampleSeq []model.SentimentSample

func (sampleSeq) Generate(r *rand.Rand, _ int) reflect.Value {
	n := r.Intn(1001)
	seq := make(sampleSeq, n)
	for i := range seq {
		seq[i] = model.SentimentSample{
			Hour:         baseHour.Add(time.Duration(i) * time.Hour),
			AvgSentiment: r.Float64()*2 - 1,
			NTweets:      r.Intn(5000),
		}
	}
	return reflect.ValueOf(seq)
}

func TestAggregate_EmptyInput(t *testing.T) {
	for _, window := range []int{1, 2, 3, 24, 1000} {
		view, err := Aggregate(nil, window)
		require.NoError(t, err)
		require.NotNil(t, view)
		assert.Empty(t, view.Labels)
		assert.Empty(t, view.RawSeries)
		assert.Empty(t, view.TrendSeries)
		assert.Empty(t, view.VolumeSeries)
		assert.True(t, view.Empty())
	}

	view, err := Aggregate([]model.SentimentSample{}, DefaultWindowSize)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Len())
}

func TestAggregate_InvalidWindow(t *testing.T) {
	for _, window := range []int{0, -1, -100} {
		view, err := Aggregate(samplesFrom([]float64{0.1, 0.2}), window)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Nil(t, view)
	}
}

func TestAggregate_KnownSeries(t *testing.T) {
	view, err := Aggregate(samplesFrom([]float64{0.1, 0.3, -0.2, 0.5, 0.0}), 3)
	require.NoError(t, err)
	require.Len(t, view.TrendSeries, 5)

	assert.False(t, view.TrendSeries[0].Valid)
	assert.False(t, view.TrendSeries[1].Valid)

	want := []float64{0.0667, 0.2, 0.1}
	for i, w := range want {
		p := view.TrendSeries[i+2]
		require.True(t, p.Valid, "index %d", i+2)
		assert.Equal(t, w, math.Round(p.Value*1e4)/1e4, "index %d", i+2)
	}
}

func TestAggregate_Labels(t *testing.T) {
	samples := samplesFrom([]float64{0.1, 0.2, 0.3})
	samples[1].Hour = samples[1].Hour.Add(30 * time.Minute)

	view, err := Aggregate(samples, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-01 08:00", "2025-06-01 09:00", "2025-06-01 10:00"}, view.Labels)

	berlin := time.FixedZone("CEST", 2*60*60)
	custom := Aggregator{Location: berlin, LabelLayout: "Jan 2 15:04"}
	view, err = custom.Aggregate(samples[:1], 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jun 1 10:00"}, view.Labels)

	var zero Aggregator
	view, err = zero.Aggregate(samples[:1], 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-01 08:00"}, view.Labels)
}

func TestAggregate_LabelsAcrossMidnight(t *testing.T) {
	start := time.Date(2025, 12, 31, 22, 0, 0, 0, time.UTC)
	samples := make([]model.SentimentSample, 4)
	for i := range samples {
		samples[i] = model.SentimentSample{Hour: start.Add(time.Duration(i) * time.Hour), AvgSentiment: 0.1}
	}

	view, err := Aggregate(samples, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-12-31 22:00", "2025-12-31 23:00", "2026-01-01 00:00", "2026-01-01 01:00"}, view.Labels)
	assert.True(t, sort.StringsAreSorted(view.Labels))

	compact := Aggregator{Location: time.UTC, LabelLayout: HourOnlyLayout}
	view, err = compact.Aggregate(samples, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"22:00", "23:00", "00:00", "01:00"}, view.Labels)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	samples := samplesFrom([]float64{0.4, -0.4, 0.9, 0.1})
	before := make([]model.SentimentSample, len(samples))
	copy(before, samples)

	_, err := Aggregate(samples, 2)
	require.NoError(t, err)
	assert.Equal(t, before, samples)
}

func TestAggregate_UnsortedInputPassesThrough(t *testing.T) {
	samples := samplesFrom([]float64{0.1, 0.2, 0.3})
	samples[0], samples[2] = samples[2], samples[0]

	view, err := Aggregate(samples, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.3, 0.2, 0.1}, view.RawSeries)
	assert.Equal(t, []string{"2025-06-01 10:00", "2025-06-01 09:00", "2025-06-01 08:00"}, view.Labels)
	assert.Equal(t, []int{12, 11, 10}, view.VolumeSeries)
}

func TestAggregate_Deterministic(t *testing.T) {
	samples := samplesFrom([]float64{0.12, -0.7, 0.33, 0.05, 0.91, -0.2})

	first, err := Aggregate(samples, 3)
	require.NoError(t, err)
	second, err := Aggregate(samples, 3)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, first, second)
}

func TestAggregate_PropertyLengths(t *testing.T) {
	prop := func(seq sampleSeq, w uint8) bool {
		window := int(w)%50 + 1
		view, err := Aggregate(seq, window)
		if err != nil {
			return false
		}
		n := len(seq)
		return len(view.Labels) == n && len(view.RawSeries) == n &&
			len(view.TrendSeries) == n && len(view.VolumeSeries) == n
	}
	require.NoError(t, quick.Check(prop, &quick.Config{MaxCount: 50}))
}

func TestAggregate_PropertyPassThrough(t *testing.T) {
	prop := func(seq sampleSeq) bool {
		view, err := Aggregate(seq, DefaultWindowSize)
		if err != nil {
			return false
		}
		for i, s := range seq {
			if view.RawSeries[i] != s.AvgSentiment || view.VolumeSeries[i] != s.NTweets {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(prop, &quick.Config{MaxCount: 50}))
}

func TestAggregate_PropertyWarmup(t *testing.T) {
	prop := func(seq sampleSeq, w uint8) bool {
		window := int(w)%50 + 1
		view, err := Aggregate(seq, window)
		if err != nil {
			return false
		}
		for i, p := range view.TrendSeries {
			if (i < window-1) == p.Valid {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(prop, &quick.Config{MaxCount: 50}))
}

func TestAggregate_PropertyWindowOneIsIdentity(t *testing.T) {
	prop := func(seq sampleSeq) bool {
		view, err := Aggregate(seq, 1)
		if err != nil {
			return false
		}
		for i, p := range view.TrendSeries {
			if !p.Valid || p.Value != view.RawSeries[i] {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(prop, &quick.Config{MaxCount: 50}))
}

func TestAggregate_PropertyLabelsFollowHours(t *testing.T) {
	prop := func(seq sampleSeq) bool {
		view, err := Aggregate(seq, DefaultWindowSize)
		if err != nil {
			return false
		}
		for i := 1; i < len(view.Labels); i++ {
			if view.Labels[i] <= view.Labels[i-1] {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(prop, &quick.Config{MaxCount: 50}))
}

func TestAggregate_ConcurrentCallers(t *testing.T) {
	samples := samplesFrom([]float64{0.1, 0.3, -0.2, 0.5, 0.0})
	want, err := Aggregate(samples, 3)
	require.NoError(t, err)

	results := make(chan *model.SentimentSeriesViewModel, 16)
	for i := 0; i < cap(results); i++ {
		go func() {
			view, _ := Aggregate(samples, 3)
			results <- view
		}()
	}
	for i := 0; i < cap(results); i++ {
		assert.Equal(t, want, <-results)
	}
}
