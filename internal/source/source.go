// Package source supplies ordered hourly sentiment samples for a token.
package source

import (
	"context"
	"math"
	"time"

	"SentimentSentinel/internal/model"
)

// SampleSource fetches the hourly sentiment series for a token, oldest hour
// first, reaching lookback into the past. A lookback <= 0 means the source's
// default. An empty result means no data and is not an error.
type SampleSource interface {
	FetchHourly(ctx context.Context, coin string, lookback time.Duration) ([]model.SentimentSample, error)
	Name() string
}

// Ranker orders tokens by sentiment score over a time range, best first.
type Ranker interface {
	TopTokens(ctx context.Context, r model.TimeRange, limit int) ([]model.TokenScore, error)
}

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Samples map[string][]model.SentimentSample
	// Hours, when Samples has no entry for a coin, generates that many
	// synthetic hours ending at Now.
	Hours int
	// Scores is returned by TopTokens regardless of the range.
	Scores []model.TokenScore
	Now    func() time.Time
	Err    error
}

func (m *MockSource) Name() string { return "mock" }

// FetchHourly returns the fixed samples for coin as they are. Generated
// series are capped at lookback hours.
func (m *MockSource) FetchHourly(_ context.Context, coin string, lookback time.Duration) ([]model.SentimentSample, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.Samples[coin]; ok {
		return s, nil
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	hours := m.Hours
	if lookback > 0 && int(lookback/time.Hour) < hours {
		hours = int(lookback / time.Hour)
	}
	return generateMockSamples(now(), hours), nil
}

func (m *MockSource) TopTokens(_ context.Context, _ model.TimeRange, limit int) ([]model.TokenScore, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && limit < len(m.Scores) {
		return m.Scores[:limit], nil
	}
	return m.Scores, nil
}

func generateMockSamples(now time.Time, count int) []model.SentimentSample {
	end := now.UTC().Truncate(time.Hour)
	samples := make([]model.SentimentSample, count)
	for i := 0; i < count; i++ {
		samples[i] = model.SentimentSample{
			Hour:         end.Add(-time.Duration(count-1-i) * time.Hour),
			AvgSentiment: math.Round(math.Sin(float64(i)/3)*1000) / 1000,
			NTweets:      20 + (i*7)%30,
		}
	}
	return samples
}
