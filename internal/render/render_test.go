package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentimentSentinel/internal/model"
)

func sampleView() *model.SentimentSeriesViewModel {
	return &model.SentimentSeriesViewModel{
		Labels:       []string{"08:00", "09:00", "10:00"},
		RawSeries:    []float64{0.1, -0.4, 0.6},
		TrendSeries:  []model.TrendPoint{{}, model.TrendValue(-0.15), model.TrendValue(0.1)},
		VolumeSeries: []int{12, 1500, 3},
	}
}

func TestChartConfig(t *testing.T) {
	raw, err := ChartConfig(sampleView())
	require.NoError(t, err)

	var cfg struct {
		Type string `json:"type"`
		Data struct {
			Labels   []string `json:"labels"`
			Datasets []struct {
				Type                 string   `json:"type"`
				Label                string   `json:"label"`
				Data                 []any    `json:"data"`
				PointBackgroundColor []string `json:"pointBackgroundColor"`
				YAxisID              string   `json:"yAxisID"`
			} `json:"datasets"`
		} `json:"data"`
		Options struct {
			Plugins struct {
				Title struct {
					Display bool `json:"display"`
				} `json:"title"`
			} `json:"plugins"`
		} `json:"options"`
	}
	require.NoError(t, json.Unmarshal(raw, &cfg))

	assert.Equal(t, "bar", cfg.Type)
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, cfg.Data.Labels)
	require.Len(t, cfg.Data.Datasets, 3)

	sentiment := cfg.Data.Datasets[0]
	assert.Equal(t, "y-sentiment", sentiment.YAxisID)
	assert.Equal(t, []string{colorPositive, colorNegative, colorPositive}, sentiment.PointBackgroundColor)

	trend := cfg.Data.Datasets[1]
	assert.Equal(t, "Moving Average", trend.Label)
	require.Len(t, trend.Data, 3)
	assert.Nil(t, trend.Data[0])
	assert.Equal(t, -0.15, trend.Data[1])

	mentions := cfg.Data.Datasets[2]
	assert.Equal(t, "y-mentions", mentions.YAxisID)
	assert.Equal(t, []any{12.0, 1500.0, 3.0}, mentions.Data)

	assert.False(t, cfg.Options.Plugins.Title.Display)
}

func TestChartConfig_Empty(t *testing.T) {
	raw, err := ChartConfig(&model.SentimentSeriesViewModel{})
	require.NoError(t, err)
	assert.Contains(t, string(raw), EmptyChartMessage)
	assert.Contains(t, string(raw), `"labels":[]`)

	raw, err = ChartConfig(nil)
	require.NoError(t, err)
	assert.Contains(t, string(raw), EmptyChartMessage)
}

func TestFormatTelegram(t *testing.T) {
	now := time.Date(2025, 6, 1, 11, 5, 0, 0, time.UTC)
	snap := &model.SeriesSnapshot{Coin: "PEPE", View: sampleView(), FetchedAt: now.Add(-5 * time.Minute)}

	msg := FormatTelegram(snap, now)
	assert.Contains(t, msg, "<b>PEPE sentiment</b> | 08:00 – 10:00")
	assert.Contains(t, msg, "Latest: +0.600 (Positive)")
	assert.Contains(t, msg, "Trend: +0.100 ↗")
	assert.Contains(t, msg, "Mentions: 1,515 over 3 hours")
	assert.Contains(t, msg, "Updated 5 minutes ago")
	assert.Contains(t, msg, "1,500")
}

func TestFormatTelegram_NoTrendYet(t *testing.T) {
	view := &model.SentimentSeriesViewModel{
		Labels:       []string{"08:00"},
		RawSeries:    []float64{-0.2},
		TrendSeries:  []model.TrendPoint{{}},
		VolumeSeries: []int{1},
	}
	msg := FormatTelegram(&model.SeriesSnapshot{Coin: "X", View: view}, time.Now())
	assert.Contains(t, msg, "(Negative)")
	assert.Contains(t, msg, "not enough hours yet")
	assert.Contains(t, msg, "over 1 hour\n")
}

func TestFormatTelegram_Empty(t *testing.T) {
	msg := FormatTelegram(&model.SeriesSnapshot{Coin: "<b>", View: &model.SentimentSeriesViewModel{}}, time.Now())
	assert.Contains(t, msg, "No sentiment data available.")
	assert.Contains(t, msg, "&lt;b&gt;")
}

func TestFormatWatchlist(t *testing.T) {
	msg := FormatWatchlist([]string{"BTC", "ETH"})
	assert.Contains(t, msg, "• BTC\n")
	assert.Contains(t, msg, "• ETH\n")
}

func TestFormatTop(t *testing.T) {
	msg := FormatTop(model.RangeSixHr, []model.TokenScore{{Coin: "BTC", Score: 2.5}, {Coin: "<x>", Score: -0.01}})
	assert.Contains(t, msg, "<b>Top tokens</b> | last 6hr")
	assert.Contains(t, msg, "1. BTC +2.50 (Positive)\n")
	assert.Contains(t, msg, "2. &lt;x&gt; -0.01 (Neutral)\n")

	assert.Contains(t, FormatTop(model.RangeHour, nil), "No token mentions in the last hour.")
}

func TestTerminal(t *testing.T) {
	out := Terminal("PEPE", sampleView(), 5)
	assert.Contains(t, out, "PEPE sentiment")
	assert.Contains(t, out, "09:00")
	assert.Contains(t, out, "-0.400")
	assert.Contains(t, out, "1500")
	assert.Equal(t, 1, strings.Count(out, "—"), "one warm-up hour")
}

func TestTerminal_DatedLabels(t *testing.T) {
	view := sampleView()
	view.Labels = []string{"2025-06-01 08:00", "2025-06-01 09:00", "2025-06-01 10:00"}

	out := Terminal("PEPE", view, 5)
	assert.Contains(t, out, "2025-06-01 09:00")
	assert.Contains(t, out, "hour            ")
}

func TestTerminal_Empty(t *testing.T) {
	out := Terminal("NEW", &model.SentimentSeriesViewModel{}, 5)
	assert.Contains(t, out, EmptyChartMessage)
}

func TestBar(t *testing.T) {
	pos := bar(0.5, 1, 3)
	assert.Equal(t, 2, strings.Count(pos, "█"))
	assert.Less(t, strings.Index(pos, "│"), strings.Index(pos, "█"))

	neg := bar(-1.5, 1, 3)
	assert.Equal(t, 3, strings.Count(neg, "█"), "clamped to width")
	assert.Greater(t, strings.Index(neg, "│"), strings.Index(neg, "█"))
}
