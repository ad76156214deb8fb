// Package follower wires a signal source into scheduling, admission,
// journaling and execution dispatch. One Follower owns one sequential
// processing path; independent tailing sessions need independent followers.
package follower

import (
	"context"
	"time"

	"github.com/nagaraj556534/QuotexTrading/internal/decision"
	"github.com/nagaraj556534/QuotexTrading/internal/journal"
	"github.com/nagaraj556534/QuotexTrading/internal/observ"
	"github.com/nagaraj556534/QuotexTrading/internal/schedule"
	"github.com/nagaraj556534/QuotexTrading/internal/signal"
	"github.com/nagaraj556534/QuotexTrading/internal/transport"
)

// Executor places one accepted order. Implementations may be slow or fail;
// the follower contains both so ingestion never stalls.
type Executor interface {
	Execute(ctx context.Context, sig signal.ScheduledSignal) error
}

type Config struct {
	Trade         bool // when false, verdicts are journaled but never dispatched
	ExecQueueSize int
}

// Follower consumes parsed signals, schedules and filters them, journals
// every verdict and hands accepted orders to the executor through a bounded
// queue drained by a single worker. A full queue drops the dispatch (with a
// logged error) rather than blocking ingestion.
type Follower struct {
	cfg      Config
	resolver schedule.Resolver
	filter   *decision.Filter
	log      *journal.SignalLog
	outbox   *journal.Outbox
	exec     Executor

	seen  map[string]struct{}
	queue chan signal.ScheduledSignal
	now   func() time.Time
}

func New(cfg Config, resolver schedule.Resolver, filter *decision.Filter, log *journal.SignalLog, outbox *journal.Outbox, exec Executor) *Follower {
	if cfg.ExecQueueSize <= 0 {
		cfg.ExecQueueSize = 16
	}
	return &Follower{
		cfg:      cfg,
		resolver: resolver,
		filter:   filter,
		log:      log,
		outbox:   outbox,
		exec:     exec,
		seen:     make(map[string]struct{}),
		queue:    make(chan signal.ScheduledSignal, cfg.ExecQueueSize),
		now:      time.Now,
	}
}

// Run consumes the source until it ends or the context is cancelled, then
// drains the dispatch queue.
func (f *Follower) Run(ctx context.Context, src transport.Source) error {
	ch, err := src.Start(ctx)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go f.dispatchLoop(ctx, done)

	for sig := range ch {
		f.Handle(sig)
	}
	close(f.queue)
	<-done
	return ctx.Err()
}

// Handle runs one signal through scheduling, admission and journaling.
// It reports false when the signal was already handled this session (the
// follower keeps its own dedup set independent of the source's).
func (f *Follower) Handle(sig signal.Signal) (signal.ScheduledSignal, bool) {
	key := sig.Key()
	if _, dup := f.seen[key]; dup {
		return signal.ScheduledSignal{}, false
	}
	f.seen[key] = struct{}{}

	now := f.now()
	verdict := f.filter.Evaluate(f.resolver.Schedule(sig, now), now)

	if f.log != nil {
		if err := f.log.Record(verdict, now); err != nil {
			observ.LogError("journal_write_failed", err, map[string]any{"asset": verdict.Asset})
		}
	}
	observ.Log("signal_handled", map[string]any{
		"asset":      verdict.Asset,
		"direction":  verdict.Direction,
		"trade_time": verdict.TradeTime,
		"eta_s":      verdict.SecondsUntilEntry(now),
		"forecast":   verdict.ForecastPct,
		"payout":     verdict.PayoutPct,
		"ignored":    verdict.Ignored,
		"reason":     verdict.Reason,
	})

	if !verdict.Ignored && f.cfg.Trade && f.exec != nil {
		f.dispatch(verdict, now)
	}
	return verdict, true
}

func (f *Follower) dispatch(sig signal.ScheduledSignal, now time.Time) {
	if f.outbox != nil {
		if seen, err := f.outbox.HasRecentOrder(sig.Key()); err != nil {
			observ.LogError("outbox_lookup_failed", err, map[string]any{"asset": sig.Asset})
		} else if seen {
			observ.Log("order_suppressed_recent", map[string]any{"key": sig.Key()})
			return
		}
	}

	select {
	case f.queue <- sig:
		observ.SetGauge("exec_queue_depth", float64(len(f.queue)), nil)
	default:
		observ.IncCounter("exec_queue_drops_total", nil)
		observ.Log("exec_queue_full", map[string]any{"asset": sig.Asset, "key": sig.Key()})
		return
	}

	if f.outbox != nil {
		order := journal.Order{
			Asset:          sig.Asset,
			Direction:      string(sig.Direction),
			TradeTime:      sig.TradeTime,
			TradeEpoch:     sig.TradeEpoch,
			Timestamp:      now.UTC(),
			Status:         "dispatched",
			IdempotencyKey: sig.Key(),
		}
		if err := f.outbox.WriteOrder(order); err != nil {
			observ.LogError("outbox_write_failed", err, map[string]any{"asset": sig.Asset})
		}
	}
}

func (f *Follower) dispatchLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for sig := range f.queue {
		f.execute(ctx, sig)
	}
}

// execute contains executor failures: an error or panic is logged and
// counted, never propagated into the ingestion path. The cooldown side
// effect was already applied at admission.
func (f *Follower) execute(ctx context.Context, sig signal.ScheduledSignal) {
	defer func() {
		if r := recover(); r != nil {
			observ.IncCounter("exec_errors_total", nil)
			observ.Log("executor_panic", map[string]any{"asset": sig.Asset, "panic": r})
		}
	}()
	if err := f.exec.Execute(ctx, sig); err != nil {
		observ.IncCounter("exec_errors_total", nil)
		observ.LogError("executor_failed", err, map[string]any{"asset": sig.Asset})
	}
}
