package main

import (
	"context"
	"errors"
	"flag"
	"os"
	osignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nagaraj556534/QuotexTrading/internal/config"
	"github.com/nagaraj556534/QuotexTrading/internal/decision"
	"github.com/nagaraj556534/QuotexTrading/internal/follower"
	"github.com/nagaraj556534/QuotexTrading/internal/journal"
	"github.com/nagaraj556534/QuotexTrading/internal/observ"
	"github.com/nagaraj556534/QuotexTrading/internal/schedule"
	"github.com/nagaraj556534/QuotexTrading/internal/signal"
	"github.com/nagaraj556534/QuotexTrading/internal/transport"
)

// paperExecutor stands in for a broker connection: it records the order as
// an event and succeeds. Swap it for a real venue adapter to go live.
type paperExecutor struct{}

func (paperExecutor) Execute(ctx context.Context, sig signal.ScheduledSignal) error {
	observ.Log("order_placed", map[string]any{
		"asset":       sig.Asset,
		"direction":   sig.Direction,
		"trade_epoch": sig.TradeEpoch,
		"eta_s":       sig.SecondsUntilEntry(time.Now()),
	})
	return nil
}

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config (optional)")
		filePath   = flag.String("file", "", "histories file to tail")
		useTG      = flag.Bool("telegram", false, "follow a Telegram group instead of a file")
	)
	flag.Parse()

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		observ.LogError("config_load_failed", err, map[string]any{"path": *configPath})
		os.Exit(1)
	}
	config.ApplyEnv(&cfg)

	ctx, stop := osignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := buildSource(cfg, *useTG, *filePath)
	if err != nil {
		observ.LogError("source_init_failed", err, nil)
		os.Exit(1)
	}

	log, err := journal.NewSignalLog(cfg.JournalCSV)
	if err != nil {
		observ.LogError("journal_init_failed", err, map[string]any{"path": cfg.JournalCSV})
		os.Exit(1)
	}
	outbox, err := journal.NewOutbox(cfg.OutboxPath, cfg.OutboxDedupeWindowS)
	if err != nil {
		observ.LogError("outbox_init_failed", err, map[string]any{"path": cfg.OutboxPath})
		os.Exit(1)
	}

	resolver := schedule.Resolver{
		TZOffsetMin:      cfg.TZOffset(),
		EntryLeadS:       cfg.EntryLeadS,
		DefaultExpiryMin: cfg.DefaultExpiryMin,
	}
	filter := decision.NewFilter(decision.Config{
		MinForecastPct:     cfg.MinForecastPct,
		MinPayoutPct:       cfg.MinPayoutPct,
		CooldownSameAssetS: cfg.CooldownSameAssetS,
		AllowPastGraceS:    cfg.AllowPastGraceS,
	})

	f := follower.New(
		follower.Config{Trade: cfg.Trade, ExecQueueSize: cfg.ExecQueueSize},
		resolver, filter, log, outbox, paperExecutor{},
	)

	observ.Log("follower_started", map[string]any{
		"trade":         cfg.Trade,
		"min_forecast":  cfg.MinForecastPct,
		"cooldown_s":    cfg.CooldownSameAssetS,
		"tz_offset_min": cfg.TZOffset(),
	})

	if err := f.Run(ctx, src); err != nil && !errors.Is(err, context.Canceled) {
		observ.LogError("follower_stopped", err, nil)
		os.Exit(1)
	}
	observ.Log("follower_stopped", map[string]any{"counters": observ.Snapshot()})
}

func buildSource(cfg config.Root, useTG bool, filePath string) (transport.Source, error) {
	if useTG {
		return transport.NewTelegramSource(transport.TelegramConfig{
			Token:  cfg.Telegram.Token,
			ChatID: cfg.Telegram.ChatID,
		})
	}
	if filePath == "" {
		return nil, errors.New("either -telegram or -file is required")
	}
	return transport.NewFileTail(transport.FileConfig{
		Path:         filePath,
		PollInterval: time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		ExistRetries: cfg.ExistRetries,
	}), nil
}
