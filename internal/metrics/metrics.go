// Package metrics exposes Prometheus instrumentation for series collection.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SentimentSentinel/internal/logging"
)

// Collection outcomes.
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusError   = "error"
)

var (
	CollectTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_collect_total",
			Help: "Total number of sentiment series collections",
		},
		[]string{"source", "status"},
	)

	CollectDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_collect_duration_seconds",
			Help:    "Fetch plus aggregation time in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)

	SeriesLength = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_series_length",
			Help:    "Number of hourly samples per collected series",
			Buckets: []float64{0, 1, 3, 6, 12, 24, 48, 168},
		},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_notifications_total",
			Help: "Telegram messages sent",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(CollectTotal, CollectDuration, SeriesLength, NotificationsTotal)
}

// ObserveCollect records one collection pass.
func ObserveCollect(source, status string, points int, started time.Time) {
	CollectTotal.WithLabelValues(source, status).Inc()
	CollectDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
	if status != StatusError {
		SeriesLength.Observe(float64(points))
	}
}

// Handler returns the /metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until the server fails. It returns the
// server so callers can shut it down.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logging.Get().Infow("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Get().Errorw("metrics endpoint stopped", "error", err)
		}
	}()
	return srv
}
