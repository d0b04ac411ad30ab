package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"SentimentSentinel/internal/model"
)

// APISource reads hourly series from the dashboard backend.
type APISource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Limiter *rate.Limiter
	Now     func() time.Time
}

// NewAPISource creates a source with optional proxy support. requestsPerSec
// <= 0 disables throttling.
func NewAPISource(baseURL, apiKey, proxyURL string, requestsPerSec float64) *APISource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSec), 1)
	}
	return &APISource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Limiter: limiter,
		Now:     time.Now,
	}
}

func (s *APISource) Name() string { return "api" }

// apiSample is the backend's JSON shape. The hour may or may not carry a zone.
type apiSample struct {
	Hour         string  `json:"hour"`
	AvgSentiment float64 `json:"avg_sentiment"`
	NTweets      int     `json:"n_tweets"`
}

var hourLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseHour accepts RFC 3339 and naive timestamps; naive ones are UTC.
func parseHour(v string) (time.Time, error) {
	for _, layout := range hourLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised hour %q", v)
}

// FetchHourly returns samples in the order the backend sent them. A 404
// means the token has no mentions and yields an empty series. The backend
// serves a fixed 24 hours; a shorter lookback drops the older hours here.
func (s *APISource) FetchHourly(ctx context.Context, coin string, lookback time.Duration) ([]model.SentimentSample, error) {
	endpoint := fmt.Sprintf("%s/api/tokens/%s/sentiment/hourly", s.BaseURL, url.PathEscape(coin))
	var raw []apiSample
	found, err := s.getJSON(ctx, endpoint, &raw)
	if err != nil {
		return nil, fmt.Errorf("fetch hourly sentiment: %w", err)
	}
	if !found {
		return []model.SentimentSample{}, nil
	}

	var since time.Time
	if lookback > 0 {
		since = s.now().Add(-lookback)
	}
	samples := make([]model.SentimentSample, 0, len(raw))
	for i, r := range raw {
		hour, err := parseHour(r.Hour)
		if err != nil {
			return nil, fmt.Errorf("decode hourly sentiment: sample %d: %w", i, err)
		}
		// Keep an hour while any part of it lies inside the lookback.
		if !since.IsZero() && !hour.Add(time.Hour).After(since) {
			continue
		}
		samples = append(samples, model.SentimentSample{Hour: hour, AvgSentiment: r.AvgSentiment, NTweets: r.NTweets})
	}
	return samples, nil
}

// TopTokens asks the backend's ranking endpoint for the best scored tokens.
func (s *APISource) TopTokens(ctx context.Context, r model.TimeRange, limit int) ([]model.TokenScore, error) {
	q := url.Values{}
	q.Set("time_range", string(r))
	q.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/api/tokens/top?%s", s.BaseURL, q.Encode())

	scores := []model.TokenScore{}
	if _, err := s.getJSON(ctx, endpoint, &scores); err != nil {
		return nil, fmt.Errorf("fetch top tokens: %w", err)
	}
	return scores, nil
}

// getJSON decodes a 200 response into out. A 404 reports found == false and
// no error; any other status is an error carrying the body.
func (s *APISource) getJSON(ctx context.Context, endpoint string, out any) (bool, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return false, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode: %w", err)
	}
	return true, nil
}

func (s *APISource) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
