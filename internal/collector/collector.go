// Package collector fetches hourly samples and turns them into view models.
package collector

import (
	"context"
	"fmt"
	"time"

	"SentimentSentinel/internal/aggregator"
	"SentimentSentinel/internal/logging"
	"SentimentSentinel/internal/metrics"
	"SentimentSentinel/internal/model"
	"SentimentSentinel/internal/source"
)

// Collector orchestrates fetching and aggregation for one source.
type Collector struct {
	Source     source.SampleSource
	Window     int
	// Lookback is passed to the source by Collect; 0 keeps the source's own.
	Lookback   time.Duration
	Aggregator aggregator.Aggregator
	Now        func() time.Time
}

// NewCollector creates a Collector using the default label format.
func NewCollector(src source.SampleSource, window int) *Collector {
	return &Collector{
		Source:     src,
		Window:     window,
		Aggregator: aggregator.DefaultAggregator,
		Now:        time.Now,
	}
}

// Collect fetches the series for coin over the collector's lookback and
// aggregates it. A token with no data yields a snapshot holding an empty
// view model.
func (c *Collector) Collect(ctx context.Context, coin string) (*model.SeriesSnapshot, error) {
	return c.CollectRange(ctx, coin, c.Lookback)
}

// CollectRange is Collect with an explicit lookback.
func (c *Collector) CollectRange(ctx context.Context, coin string, lookback time.Duration) (*model.SeriesSnapshot, error) {
	started := time.Now()
	name := c.Source.Name()

	samples, err := c.Source.FetchHourly(ctx, coin, lookback)
	if err != nil {
		metrics.ObserveCollect(name, metrics.StatusError, 0, started)
		return nil, fmt.Errorf("fetch %s from %s: %w", coin, name, err)
	}

	view, err := c.Aggregator.Aggregate(samples, c.Window)
	if err != nil {
		metrics.ObserveCollect(name, metrics.StatusError, len(samples), started)
		return nil, fmt.Errorf("aggregate %s: %w", coin, err)
	}

	status := metrics.StatusSuccess
	if view.Empty() {
		status = metrics.StatusEmpty
		logging.Get().Infow("no sentiment data", "coin", coin, "source", name)
	}
	metrics.ObserveCollect(name, status, view.Len(), started)

	return &model.SeriesSnapshot{
		Coin:      coin,
		Samples:   samples,
		View:      view,
		FetchedAt: c.now(),
	}, nil
}

// CollectAll collects every coin in order. Failures are logged and skipped.
func (c *Collector) CollectAll(ctx context.Context, coins []string) []*model.SeriesSnapshot {
	snaps := make([]*model.SeriesSnapshot, 0, len(coins))
	for _, coin := range coins {
		if ctx.Err() != nil {
			logging.Get().Warnw("collection interrupted", "remaining", len(coins)-len(snaps))
			break
		}
		snap, err := c.Collect(ctx, coin)
		if err != nil {
			logging.Get().Warnw("collect failed, skipping", "coin", coin, "error", err)
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

func (c *Collector) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
