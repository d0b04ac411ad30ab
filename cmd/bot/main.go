package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SentimentSentinel/internal/bootstrap"
	"SentimentSentinel/internal/config"
	"SentimentSentinel/internal/logging"
	"SentimentSentinel/internal/metrics"
	"SentimentSentinel/internal/notifier"
	"SentimentSentinel/internal/scheduler"
	"SentimentSentinel/internal/source"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.Log.Level, cfg.Log.Env); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()
	log := logging.Get()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("config validation", "error", err)
	}
	log.Infow("SentimentSentinel starting", "watchlist", cfg.Watchlist, "window", cfg.Chart.TrendWindow)

	// Init source
	src, closeSource, err := bootstrap.NewSource(cfg)
	if err != nil {
		log.Fatalw("init data source", "error", err)
	}
	defer closeSource()
	log.Infow("data source ready", "source", src.Name())

	// Init collector
	col, err := bootstrap.NewCollector(cfg, src)
	if err != nil {
		log.Fatalw("init collector", "error", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Warn("telegram not configured, summaries will only be logged")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, sender, cfg.Watchlist)
	sched.TopLimit = cfg.Database.TopLimit
	if r, ok := src.(source.Ranker); ok {
		sched.Ranker = r
	}
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalw("register cron task", "error", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	if cfg.Metrics.Addr != "" {
		srv := metrics.Serve(cfg.Metrics.Addr)
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, refreshing now")
		sched.RefreshAsync()
	}

	log.Info("SentimentSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	log.Info("SentimentSentinel stopped")
}
