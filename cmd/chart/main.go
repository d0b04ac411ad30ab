package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"SentimentSentinel/internal/bootstrap"
	"SentimentSentinel/internal/config"
	"SentimentSentinel/internal/logging"
	"SentimentSentinel/internal/model"
	"SentimentSentinel/internal/render"
	"SentimentSentinel/internal/source"
)

func main() {
	cfgPath := flag.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "path to the YAML config")
	coin := flag.String("coin", "BTC", "token symbol")
	format := flag.String("format", "terminal", "output format: terminal, json, telegram or top")
	timeRange := flag.String("range", "", "lookback: hour, 3hr, 6hr, 12hr or day (empty uses the configured lookback)")
	window := flag.Int("window", 0, "moving average window in hours (0 uses the configured value)")
	width := flag.Int("width", 20, "bar width for terminal output")
	flag.Parse()

	if err := run(*cfgPath, strings.ToUpper(strings.TrimSpace(*coin)), *format, *timeRange, *window, *width); err != nil {
		fmt.Fprintf(os.Stderr, "chart: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, coin, format, rangeArg string, window, width int) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if window != 0 {
		cfg.Chart.TrendWindow = window
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := logging.Init(cfg.Log.Level, cfg.Log.Env); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logging.Sync()

	src, closeSource, err := bootstrap.NewSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	col, err := bootstrap.NewCollector(cfg, src)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if format == "top" {
		ranker, ok := src.(source.Ranker)
		if !ok {
			return fmt.Errorf("source %s cannot rank tokens", src.Name())
		}
		r, err := model.ParseTimeRange(rangeArg)
		if err != nil {
			return err
		}
		scores, err := ranker.TopTokens(ctx, r, cfg.Database.TopLimit)
		if err != nil {
			return err
		}
		fmt.Println(render.FormatTop(r, scores))
		return nil
	}

	lookback := col.Lookback
	if rangeArg != "" {
		r, err := model.ParseTimeRange(rangeArg)
		if err != nil {
			return err
		}
		lookback = r.Duration()
	}
	snap, err := col.CollectRange(ctx, coin, lookback)
	if err != nil {
		return err
	}

	switch format {
	case "terminal":
		fmt.Println(render.Terminal(coin, snap.View, width))
	case "json":
		out, err := render.ChartConfig(snap.View)
		if err != nil {
			return fmt.Errorf("render chart config: %w", err)
		}
		fmt.Println(string(out))
	case "telegram":
		fmt.Println(render.FormatTelegram(snap, time.Now()))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
