package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"SentimentSentinel/internal/calculator"
	"SentimentSentinel/internal/model"
)

var (
	positiveColor = lipgloss.Color("#10B981")
	negativeColor = lipgloss.Color("#EF4444")
	mutedColor    = lipgloss.Color("#6B7280")
	titleColor    = lipgloss.Color("#7C3AED")
	borderColor   = lipgloss.Color("#374151")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(titleColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// Terminal renders view as a boxed panel with one row per hour. barWidth is
// the number of cells each side of the zero line.
func Terminal(coin string, view *model.SentimentSeriesViewModel, barWidth int) string {
	if barWidth < 1 {
		barWidth = 10
	}
	title := titleStyle.Render(fmt.Sprintf("📉 %s sentiment", coin))

	var content strings.Builder
	if view.Empty() {
		content.WriteString(mutedStyle.Render(EmptyChartMessage))
		return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content.String()))
	}

	bound := calculator.SymmetricBound(view.RawSeries, 1.0)
	labelWidth := len("hour")
	for _, l := range view.Labels {
		labelWidth = max(labelWidth, len(l))
	}
	header := fmt.Sprintf("%-*s %s %7s %7s %8s", labelWidth, "hour", strings.Repeat(" ", 2*barWidth+1), "score", "trend", "mentions")
	content.WriteString(mutedStyle.Render(header))
	for i := 0; i < view.Len(); i++ {
		v := view.RawSeries[i]
		trend := "—"
		if p := view.TrendSeries[i]; p.Valid {
			trend = fmt.Sprintf("%+.3f", p.Value)
		}
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("%-*s %s %+7.3f %7s %8d",
			labelWidth, view.Labels[i], bar(v, bound, barWidth), v, trend, view.VolumeSeries[i]))
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content.String()))
}

// bar draws v around a centre line: negatives grow left, positives right.
func bar(v, bound float64, width int) string {
	cells := int(math.Round(math.Abs(v) / bound * float64(width)))
	if cells > width {
		cells = width
	}
	fill := strings.Repeat("█", cells)
	pad := strings.Repeat(" ", width-cells)
	empty := strings.Repeat(" ", width)

	if v < 0 {
		return pad + lipgloss.NewStyle().Foreground(negativeColor).Render(fill) + "│" + empty
	}
	return empty + "│" + lipgloss.NewStyle().Foreground(positiveColor).Render(fill) + pad
}
