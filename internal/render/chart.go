// Package render draws sentiment view models for the surfaces the bot
// serves: Chart.js configs, Telegram messages and terminal panels.
package render

import (
	"encoding/json"

	"SentimentSentinel/internal/calculator"
	"SentimentSentinel/internal/model"
)

// EmptyChartMessage is shown instead of a chart when there is no data.
const EmptyChartMessage = "No sentiment data available to display chart."

const (
	colorPositive   = "rgba(40, 167, 69, 1)"
	colorNegative   = "rgba(220, 53, 69, 1)"
	colorSentiment  = "rgba(255, 206, 86, 1)"
	colorSentFill   = "rgba(255, 206, 86, 0.2)"
	colorTrend      = "rgba(153, 102, 255, 1)"
	colorMentions   = "rgba(54, 162, 235, 0.6)"
	colorMentionsBd = "rgba(54, 162, 235, 1)"
)

type chartConfig struct {
	Type    string       `json:"type"`
	Data    chartData    `json:"data"`
	Options chartOptions `json:"options"`
}

type chartData struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

type chartDataset struct {
	Type                 string   `json:"type"`
	Label                string   `json:"label"`
	Data                 any      `json:"data"`
	BorderColor          string   `json:"borderColor,omitempty"`
	BackgroundColor      string   `json:"backgroundColor,omitempty"`
	PointBackgroundColor []string `json:"pointBackgroundColor,omitempty"`
	BorderDash           []int    `json:"borderDash,omitempty"`
	YAxisID              string   `json:"yAxisID"`
	Tension              float64  `json:"tension,omitempty"`
	Fill                 bool     `json:"fill"`
	SpanGaps             bool     `json:"spanGaps"`
	Order                int      `json:"order"`
}

type chartOptions struct {
	Responsive          bool                  `json:"responsive"`
	MaintainAspectRatio bool                  `json:"maintainAspectRatio"`
	Interaction         chartInteraction      `json:"interaction"`
	Scales              map[string]chartScale `json:"scales"`
	Plugins             chartPlugins          `json:"plugins"`
}

type chartInteraction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type chartScale struct {
	Type        string      `json:"type,omitempty"`
	Display     bool        `json:"display"`
	Position    string      `json:"position,omitempty"`
	Min         *float64    `json:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"`
	BeginAtZero bool        `json:"beginAtZero,omitempty"`
	Title       *chartTitle `json:"title,omitempty"`
	Grid        *chartGrid  `json:"grid,omitempty"`
}

type chartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type chartGrid struct {
	DrawOnChartArea bool `json:"drawOnChartArea"`
}

type chartPlugins struct {
	Legend chartLegend `json:"legend"`
	Title  chartTitle  `json:"title"`
}

type chartLegend struct {
	Display bool `json:"display"`
}

// ChartConfig returns a Chart.js configuration for view: mention bars on the
// right axis, the average score and its moving average on the left axis.
func ChartConfig(view *model.SentimentSeriesViewModel) ([]byte, error) {
	if view == nil {
		view = &model.SentimentSeriesViewModel{}
	}

	bound := calculator.SymmetricBound(view.RawSeries, 1.0)
	lo, hi := -bound, bound

	pointColors := make([]string, len(view.RawSeries))
	for i, v := range view.RawSeries {
		pointColors[i] = signColor(v)
	}

	cfg := chartConfig{
		Type: "bar",
		Data: chartData{
			Labels: nonNilStrings(view.Labels),
			Datasets: []chartDataset{
				{
					Type:                 "line",
					Label:                "Average Sentiment Score",
					Data:                 nonNilFloats(view.RawSeries),
					BorderColor:          colorSentiment,
					BackgroundColor:      colorSentFill,
					PointBackgroundColor: pointColors,
					YAxisID:              "y-sentiment",
					Tension:              0.4,
					Fill:                 true,
					Order:                1,
				},
				{
					Type:        "line",
					Label:       "Moving Average",
					Data:        nonNilTrend(view.TrendSeries),
					BorderColor: colorTrend,
					BorderDash:  []int{6, 4},
					YAxisID:     "y-sentiment",
					Order:       0,
				},
				{
					Type:            "bar",
					Label:           "Number of Mentions",
					Data:            nonNilInts(view.VolumeSeries),
					BorderColor:     colorMentionsBd,
					BackgroundColor: colorMentions,
					YAxisID:         "y-mentions",
					Order:           2,
				},
			},
		},
		Options: chartOptions{
			Responsive:          true,
			MaintainAspectRatio: false,
			Interaction:         chartInteraction{Mode: "index", Intersect: false},
			Scales: map[string]chartScale{
				"x": {Display: true},
				"y-sentiment": {
					Type: "linear", Display: true, Position: "left",
					Min: &lo, Max: &hi,
					Title: &chartTitle{Display: true, Text: "Avg. Sentiment Score"},
				},
				"y-mentions": {
					Type: "linear", Display: true, Position: "right",
					BeginAtZero: true,
					Title:       &chartTitle{Display: true, Text: "Mentions"},
					Grid:        &chartGrid{DrawOnChartArea: false},
				},
			},
			Plugins: chartPlugins{Legend: chartLegend{Display: false}},
		},
	}
	if view.Empty() {
		cfg.Options.Plugins.Title = chartTitle{Display: true, Text: EmptyChartMessage}
	}
	return json.Marshal(cfg)
}

func signColor(v float64) string {
	if v < 0 {
		return colorNegative
	}
	return colorPositive
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilFloats(s []float64) []float64 {
	if s == nil {
		return []float64{}
	}
	return s
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}

func nonNilTrend(s []model.TrendPoint) []model.TrendPoint {
	if s == nil {
		return []model.TrendPoint{}
	}
	return s
}
