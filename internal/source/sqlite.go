package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"SentimentSentinel/internal/logging"
	"SentimentSentinel/internal/model"
)

// DefaultLookback is how far back the hourly series reaches.
const DefaultLookback = 24 * time.Hour

// SQLiteSource buckets analysed tweets from a SQLite database by hour.
// It only reads; the analysis pipeline owns the rows.
type SQLiteSource struct {
	db       *sql.DB
	lookback time.Duration
	now      func() time.Time
}

// NewSQLiteSource opens the database at dbPath and makes sure the analysis
// table exists so an empty file is still queryable.
func NewSQLiteSource(dbPath string, lookback time.Duration) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so the analysis writer and this reader do not block each other.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if lookback <= 0 {
		lookback = DefaultLookback
	}
	s := &SQLiteSource{db: db, lookback: lookback, now: time.Now}
	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logging.Get().Infow("sqlite source opened", "path", dbPath, "lookback", lookback)
	return s, nil
}

func (s *SQLiteSource) Name() string { return "sqlite" }

// EnsureSchema creates the analysis table and its lookup index if missing.
func (s *SQLiteSource) EnsureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS coin_tweet_analysis (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			twitter_id   TEXT NOT NULL UNIQUE,
			coin_name    TEXT NOT NULL,
			publish_date INTEGER NOT NULL,
			sentiment    TEXT NOT NULL,
			keywords     TEXT,
			text         TEXT NOT NULL,
			author       TEXT,
			created_at   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS ix_coin_date ON coin_tweet_analysis(coin_name, publish_date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// The weight expression mirrors model.SentimentLabel.Weight.
const hourlyQuery = `SELECT (publish_date / 3600) * 3600 AS bucket,
		COUNT(*) AS n_tweets,
		AVG(CASE sentiment WHEN 'positive' THEN 1.0 WHEN 'negative' THEN -1.0 ELSE 0.0 END) AS avg_sentiment
	FROM coin_tweet_analysis
	WHERE coin_name = ? AND publish_date >= ?
	GROUP BY bucket
	ORDER BY bucket`

// FetchHourly returns one sample per hour with at least one mention inside
// the lookback window, oldest first. lookback <= 0 uses the source's own.
func (s *SQLiteSource) FetchHourly(ctx context.Context, coin string, lookback time.Duration) ([]model.SentimentSample, error) {
	if lookback <= 0 {
		lookback = s.lookback
	}
	since := s.now().Add(-lookback).Unix()
	rows, err := s.db.QueryContext(ctx, hourlyQuery, coin, since)
	if err != nil {
		return nil, fmt.Errorf("query hourly sentiment: %w", err)
	}
	defer rows.Close()

	samples := []model.SentimentSample{}
	for rows.Next() {
		var (
			bucket int64
			n      int
			avg    float64
		)
		if err := rows.Scan(&bucket, &n, &avg); err != nil {
			return nil, fmt.Errorf("scan hourly sentiment: %w", err)
		}
		samples = append(samples, model.SentimentSample{
			Hour:         time.Unix(bucket, 0).UTC(),
			AvgSentiment: avg,
			NTweets:      n,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hourly sentiment: %w", err)
	}
	return samples, nil
}

// Score is the summed weight times distinct authors per mention. Rows with no
// author count towards mentions only.
const topQuery = `SELECT coin_name,
		SUM(CASE sentiment WHEN 'positive' THEN 1.0 WHEN 'negative' THEN -1.0 ELSE 0.0 END)
			* (CAST(COUNT(DISTINCT author) AS REAL) / COUNT(*)) AS score
	FROM coin_tweet_analysis
	WHERE publish_date >= ?
	GROUP BY coin_name
	ORDER BY score DESC, coin_name
	LIMIT ?`

// TopTokens ranks every token mentioned inside r by score, best first.
func (s *SQLiteSource) TopTokens(ctx context.Context, r model.TimeRange, limit int) ([]model.TokenScore, error) {
	lookback := r.Duration()
	if lookback == 0 {
		return nil, fmt.Errorf("unknown time range %q", r)
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1, got %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, topQuery, s.now().Add(-lookback).Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("query top tokens: %w", err)
	}
	defer rows.Close()

	scores := []model.TokenScore{}
	for rows.Next() {
		var ts model.TokenScore
		if err := rows.Scan(&ts.Coin, &ts.Score); err != nil {
			return nil, fmt.Errorf("scan top tokens: %w", err)
		}
		scores = append(scores, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top tokens: %w", err)
	}
	return scores, nil
}

func (s *SQLiteSource) Close() error {
	logging.Get().Info("closing sqlite source")
	return s.db.Close()
}
