package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"SentimentSentinel/internal/collector"
	"SentimentSentinel/internal/logging"
	"SentimentSentinel/internal/model"
	"SentimentSentinel/internal/render"
	"SentimentSentinel/internal/source"
)

// DefaultTopLimit caps /top when TopLimit is unset.
const DefaultTopLimit = 10

// Sender delivers a rendered message. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler refreshes the watchlist on a cron schedule and answers commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Sender    Sender
	Watchlist []string
	// Ranker backs /top; nil when the data source cannot rank tokens.
	Ranker    source.Ranker
	TopLimit  int
	Ctx       context.Context
	Now       func() time.Time

	refreshing atomic.Bool
	wg         sync.WaitGroup
}

// NewScheduler creates a new Scheduler. sender may be nil, in which case
// summaries are only logged.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Sender:    sender,
		Watchlist: watchlist,
		Ctx:       ctx,
		Now:       time.Now,
	}
}

// Register adds the refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logging.Get().Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running refreshes, cron or
// background, to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	logging.Get().Info("scheduler stopped")
}

// RunNow executes the refresh task immediately and returns when it is done.
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

// RefreshAsync starts a refresh in the background. It reports false, and
// starts nothing, while another refresh is running.
func (s *Scheduler) RefreshAsync() bool {
	if s.refreshing.Load() {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.refreshTask()
	}()
	return true
}

func (s *Scheduler) refreshTask() {
	log := logging.Get().With("run_id", uuid.NewString())
	if !s.refreshing.CompareAndSwap(false, true) {
		log.Info("refresh already running, skipping")
		return
	}
	defer s.refreshing.Store(false)
	log.Infow("running refresh task", "coins", len(s.Watchlist))

	snaps := s.Collector.CollectAll(s.Ctx, s.Watchlist)
	sent := 0
	for _, snap := range snaps {
		if snap.View.Empty() {
			continue
		}
		s.trySend(render.FormatTelegram(snap, s.Now()))
		sent++
	}
	log.Infow("refresh task finished", "collected", len(snaps), "sent", sent)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/sentiment":
		if len(fields) < 2 {
			return "Usage: /sentiment &lt;COIN&gt; [range]"
		}
		rangeArg := ""
		if len(fields) > 2 {
			rangeArg = fields[2]
		}
		return s.sentimentReply(strings.ToUpper(fields[1]), rangeArg)
	case "/top":
		rangeArg := ""
		if len(fields) > 1 {
			rangeArg = fields[1]
		}
		return s.topReply(rangeArg)
	case "/watchlist":
		return render.FormatWatchlist(s.Watchlist)
	case "/refresh":
		if !s.RefreshAsync() {
			return "A refresh is already running."
		}
		return "Refreshing watchlist..."
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /sentiment &lt;COIN&gt; [range]\n• /top [range]\n• /watchlist\n• /refresh\n\nRanges: hour, 3hr, 6hr, 12hr, day"

func unknownRange(arg string) string {
	return fmt.Sprintf("Unknown range \"%s\". Use hour, 3hr, 6hr, 12hr or day.", html.EscapeString(arg))
}

// sentimentReply uses the collector's lookback unless rangeArg names one.
func (s *Scheduler) sentimentReply(coin, rangeArg string) string {
	var (
		snap *model.SeriesSnapshot
		err  error
	)
	if rangeArg == "" {
		snap, err = s.Collector.Collect(s.Ctx, coin)
	} else {
		r, perr := model.ParseTimeRange(rangeArg)
		if perr != nil {
			return unknownRange(rangeArg)
		}
		snap, err = s.Collector.CollectRange(s.Ctx, coin, r.Duration())
	}
	if err != nil {
		logging.Get().Errorw("sentiment command", "coin", coin, "error", err)
		return fmt.Sprintf("❌ Could not load sentiment for %s.", html.EscapeString(coin))
	}
	return render.FormatTelegram(snap, s.Now())
}

func (s *Scheduler) topReply(rangeArg string) string {
	if s.Ranker == nil {
		return "Token ranking is not available for this data source."
	}
	r, err := model.ParseTimeRange(rangeArg)
	if err != nil {
		return unknownRange(rangeArg)
	}
	limit := s.TopLimit
	if limit < 1 {
		limit = DefaultTopLimit
	}
	scores, err := s.Ranker.TopTokens(s.Ctx, r, limit)
	if err != nil {
		logging.Get().Errorw("top command", "range", r, "error", err)
		return "❌ Could not load the token ranking."
	}
	return render.FormatTop(r, scores)
}

func (s *Scheduler) trySend(text string) {
	if s.Sender == nil {
		logging.Get().Debugw("no sender configured, dropping message", "bytes", len(text))
		return
	}
	if err := s.Sender.SendWithRetry(s.Ctx, text, 3); err != nil {
		logging.Get().Errorw("send notification", "error", err)
	}
}
