// Package bootstrap wires configuration into sources and collectors for the
// commands under cmd/.
package bootstrap

import (
	"fmt"

	"SentimentSentinel/internal/aggregator"
	"SentimentSentinel/internal/collector"
	"SentimentSentinel/internal/config"
	"SentimentSentinel/internal/logging"
	"SentimentSentinel/internal/source"
)

// NewSource picks the data source: SQLite first, then the backend API, then
// the mock. The returned close func is never nil.
func NewSource(cfg *config.Config) (source.SampleSource, func() error, error) {
	noop := func() error { return nil }

	switch {
	case cfg.Database.SQLitePath != "":
		s, err := source.NewSQLiteSource(cfg.Database.SQLitePath, cfg.Database.Lookback)
		if err != nil {
			return nil, noop, fmt.Errorf("init sqlite source: %w", err)
		}
		return s, s.Close, nil
	case cfg.DataSource.BaseURL != "":
		return source.NewAPISource(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.RequestsPerSec), noop, nil
	case cfg.DataSource.Mock:
		logging.Get().Warn("using mock data source")
		return &source.MockSource{Hours: 24}, noop, nil
	default:
		return nil, noop, fmt.Errorf("no data source configured")
	}
}

// NewCollector builds a collector honouring the chart settings and the
// configured lookback.
func NewCollector(cfg *config.Config, src source.SampleSource) (*collector.Collector, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("chart timezone: %w", err)
	}
	col := collector.NewCollector(src, cfg.Chart.TrendWindow)
	col.Lookback = cfg.Database.Lookback
	col.Aggregator = aggregator.Aggregator{Location: loc, LabelLayout: cfg.Chart.LabelLayout}
	return col, nil
}
