package follower

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagaraj556534/QuotexTrading/internal/decision"
	"github.com/nagaraj556534/QuotexTrading/internal/observ"
	"github.com/nagaraj556534/QuotexTrading/internal/schedule"
	"github.com/nagaraj556534/QuotexTrading/internal/signal"
)

type stubSource struct {
	ch chan signal.Signal
}

func (s *stubSource) Start(ctx context.Context) (<-chan signal.Signal, error) {
	return s.ch, nil
}

type recordingExecutor struct {
	mu    sync.Mutex
	calls []signal.ScheduledSignal
	err   error
	panic bool
}

func (e *recordingExecutor) Execute(ctx context.Context, sig signal.ScheduledSignal) error {
	e.mu.Lock()
	e.calls = append(e.calls, sig)
	e.mu.Unlock()
	if e.panic {
		panic("executor exploded")
	}
	return e.err
}

func (e *recordingExecutor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func newTestFollower(cfg Config, exec Executor) *Follower {
	resolver := schedule.Resolver{TZOffsetMin: 0, EntryLeadS: 5, DefaultExpiryMin: 1}
	filter := decision.NewFilter(decision.Config{CooldownSameAssetS: 90, AllowPastGraceS: 8})
	return New(cfg, resolver, filter, nil, nil, exec)
}

func timeless(asset string, dir signal.Direction) signal.Signal {
	return signal.Signal{Asset: asset, Direction: dir}
}

func TestRunDispatchesAcceptedSignals(t *testing.T) {
	exec := &recordingExecutor{}
	f := newTestFollower(Config{Trade: true}, exec)

	src := &stubSource{ch: make(chan signal.Signal, 2)}
	src.ch <- timeless("EURUSD-OTC", signal.DirectionCall)
	src.ch <- timeless("GBPJPY-OTC", signal.DirectionPut)
	close(src.ch)

	err := f.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, exec.count())
}

func TestTradeDisabledNeverDispatches(t *testing.T) {
	exec := &recordingExecutor{}
	f := newTestFollower(Config{Trade: false}, exec)

	src := &stubSource{ch: make(chan signal.Signal, 1)}
	src.ch <- timeless("EURUSD-OTC", signal.DirectionCall)
	close(src.ch)

	require.NoError(t, f.Run(context.Background(), src))
	assert.Zero(t, exec.count())
}

func TestIgnoredSignalNotDispatched(t *testing.T) {
	exec := &recordingExecutor{}
	resolver := schedule.Resolver{EntryLeadS: 5, DefaultExpiryMin: 1}
	filter := decision.NewFilter(decision.Config{MinForecastPct: 70, CooldownSameAssetS: 90, AllowPastGraceS: 8})
	f := New(Config{Trade: true}, resolver, filter, nil, nil, exec)

	forecast := 60.0
	sig := signal.Signal{Asset: "EURUSD-OTC", Direction: signal.DirectionCall, ForecastPct: &forecast}

	src := &stubSource{ch: make(chan signal.Signal, 1)}
	src.ch <- sig
	close(src.ch)

	require.NoError(t, f.Run(context.Background(), src))
	assert.Zero(t, exec.count())
}

func TestExecutorFailureDoesNotStopIngestion(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("venue unreachable")}
	f := newTestFollower(Config{Trade: true}, exec)

	src := &stubSource{ch: make(chan signal.Signal, 2)}
	src.ch <- timeless("EURUSD-OTC", signal.DirectionCall)
	src.ch <- timeless("GBPJPY-OTC", signal.DirectionPut)
	close(src.ch)

	require.NoError(t, f.Run(context.Background(), src))
	assert.Equal(t, 2, exec.count(), "second signal must still be executed")
}

func TestExecutorPanicIsContained(t *testing.T) {
	exec := &recordingExecutor{panic: true}
	f := newTestFollower(Config{Trade: true}, exec)

	src := &stubSource{ch: make(chan signal.Signal, 2)}
	src.ch <- timeless("EURUSD-OTC", signal.DirectionCall)
	src.ch <- timeless("GBPJPY-OTC", signal.DirectionPut)
	close(src.ch)

	require.NoError(t, f.Run(context.Background(), src))
	assert.Equal(t, 2, exec.count())
}

func TestHandleDedupsPerSession(t *testing.T) {
	f := newTestFollower(Config{}, nil)

	sig := timeless("EURUSD-OTC", signal.DirectionCall)
	_, handled := f.Handle(sig)
	require.True(t, handled)
	_, handled = f.Handle(sig)
	assert.False(t, handled, "duplicate key must be suppressed at this stage")
}

func TestFullQueueDropsInsteadOfBlocking(t *testing.T) {
	// No dispatch worker is running, so the queue fills and further
	// dispatches must fall through the non-blocking path.
	exec := &recordingExecutor{}
	f := newTestFollower(Config{Trade: true, ExecQueueSize: 1}, exec)

	before := observ.CounterValue("exec_queue_drops_total", nil)
	start := time.Now()
	_, handled := f.Handle(timeless("AAA-OTC", signal.DirectionCall))
	require.True(t, handled)
	_, handled = f.Handle(timeless("BBB-OTC", signal.DirectionCall))
	require.True(t, handled)
	_, handled = f.Handle(timeless("CCC-OTC", signal.DirectionPut))
	require.True(t, handled)

	assert.Less(t, time.Since(start), time.Second, "ingestion must never block on dispatch")
	assert.Equal(t, before+2, observ.CounterValue("exec_queue_drops_total", nil))
}

func TestVerdictsCarryReasons(t *testing.T) {
	f := newTestFollower(Config{}, nil)

	v, handled := f.Handle(timeless("EURUSD-OTC", signal.DirectionCall))
	require.True(t, handled)
	assert.False(t, v.Ignored)
	assert.Equal(t, decision.ReasonOK, v.Reason)

	// Same asset, different direction: new key, but inside the cooldown.
	v, handled = f.Handle(timeless("EURUSD-OTC", signal.DirectionPut))
	require.True(t, handled)
	assert.True(t, v.Ignored)
	assert.Equal(t, decision.ReasonAssetCooldown, v.Reason)
}
