package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"SentimentSentinel/internal/model"
)

// maxTelegramRows caps the per-hour lines in a message.
const maxTelegramRows = 6

// FormatTelegram formats a snapshot as a Telegram HTML message. now anchors
// the relative "updated" time.
func FormatTelegram(snap *model.SeriesSnapshot, now time.Time) string {
	coin := html.EscapeString(snap.Coin)
	view := snap.View

	var b strings.Builder
	if view.Empty() {
		b.WriteString(fmt.Sprintf("📭 <b>%s</b>\n\nNo sentiment data available.", coin))
		return b.String()
	}

	n := view.Len()
	b.WriteString(fmt.Sprintf("📈 <b>%s sentiment</b> | %s – %s\n\n", coin, view.Labels[0], view.Labels[n-1]))

	latest := view.RawSeries[n-1]
	b.WriteString(fmt.Sprintf("Latest: %+.3f (%s)\n", latest, model.MoodOf(latest)))
	if trend, ok := view.LatestTrend(); ok {
		b.WriteString(fmt.Sprintf("Trend: %+.3f %s\n", trend, arrow(latest, trend)))
	} else {
		b.WriteString("Trend: not enough hours yet\n")
	}
	total := view.TotalMentions()
	b.WriteString(fmt.Sprintf("Mentions: %s over %d %s\n\n", humanize.Comma(int64(total)), n, plural(n, "hour", "hours")))

	start := 0
	if n > maxTelegramRows {
		start = n - maxTelegramRows
	}
	b.WriteString("<pre>")
	for i := start; i < n; i++ {
		trend := "   —  "
		if p := view.TrendSeries[i]; p.Valid {
			trend = fmt.Sprintf("%+.3f", p.Value)
		}
		b.WriteString(fmt.Sprintf("%s %+.3f %s %6s\n", view.Labels[i], view.RawSeries[i], trend, humanize.Comma(int64(view.VolumeSeries[i]))))
	}
	b.WriteString("</pre>\n")

	b.WriteString(fmt.Sprintf("Updated %s", humanize.RelTime(snap.FetchedAt, now, "ago", "from now")))
	return b.String()
}

// FormatWatchlist lists the coins the bot refreshes.
func FormatWatchlist(coins []string) string {
	var b strings.Builder
	b.WriteString("👀 <b>Watchlist</b>\n\n")
	for _, c := range coins {
		b.WriteString(fmt.Sprintf("• %s\n", html.EscapeString(c)))
	}
	return b.String()
}

// FormatTop formats a token ranking for range r.
func FormatTop(r model.TimeRange, scores []model.TokenScore) string {
	var b strings.Builder
	if len(scores) == 0 {
		b.WriteString(fmt.Sprintf("📭 No token mentions in the last %s.", r))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("🏆 <b>Top tokens</b> | last %s\n\n", r))
	for i, sc := range scores {
		b.WriteString(fmt.Sprintf("%d. %s %+.2f (%s)\n", i+1, html.EscapeString(sc.Coin), sc.Score, model.MoodOf(sc.Score)))
	}
	return b.String()
}

func arrow(latest, trend float64) string {
	switch {
	case latest > trend:
		return "↗"
	case latest < trend:
		return "↘"
	default:
		return "→"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
