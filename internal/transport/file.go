package transport

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/nagaraj556534/QuotexTrading/internal/observ"
	"github.com/nagaraj556534/QuotexTrading/internal/signal"
)

// ParseFile reads the whole file once and returns every distinct signal in
// emission order.
func ParseFile(path string) ([]signal.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parser := signal.NewBlockParser()
	seen := seenKeys{}
	var out []signal.Signal

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if sig := parser.Feed(sc.Text()); seen.admit(sig) {
			out = append(out, *sig)
		}
	}
	return out, sc.Err()
}

// FileConfig configures the live tail.
type FileConfig struct {
	Path             string
	PollInterval     time.Duration // idle wait between read attempts
	ExistRetries     int           // existence-wait budget, one PollInterval each
	MaxChannelBuffer int
}

// FileTail follows an append-only text file from the beginning, so an
// initial backlog is parsed before new lines stream in. This is a polling
// loop, not an event subscription: delivery latency is bounded below by the
// poll interval.
type FileTail struct {
	cfg    FileConfig
	parser *signal.BlockParser
	seen   seenKeys
	pacer  *rate.Limiter
}

func NewFileTail(cfg FileConfig) *FileTail {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.ExistRetries <= 0 {
		cfg.ExistRetries = 200
	}
	if cfg.MaxChannelBuffer <= 0 {
		cfg.MaxChannelBuffer = 64
	}
	return &FileTail{
		cfg:    cfg,
		parser: signal.NewBlockParser(),
		seen:   seenKeys{},
		pacer:  rate.NewLimiter(rate.Every(cfg.PollInterval), 1),
	}
}

// Start waits for the file to appear (bounded) and then tails it. A missing
// file after the retry budget is ErrSourceNeverAppeared; cancellation during
// any wait propagates as the context's error.
func (t *FileTail) Start(ctx context.Context) (<-chan signal.Signal, error) {
	if err := t.waitForFile(ctx); err != nil {
		return nil, err
	}
	f, err := os.Open(t.cfg.Path)
	if err != nil {
		return nil, err
	}

	out := make(chan signal.Signal, t.cfg.MaxChannelBuffer)
	go t.tailLoop(ctx, f, out)
	return out, nil
}

func (t *FileTail) waitForFile(ctx context.Context) error {
	for i := 0; i < t.cfg.ExistRetries; i++ {
		if _, err := os.Stat(t.cfg.Path); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.cfg.PollInterval):
		}
	}
	return ErrSourceNeverAppeared
}

func (t *FileTail) tailLoop(ctx context.Context, f *os.File, out chan<- signal.Signal) {
	defer close(out)
	defer f.Close()

	reader := bufio.NewReader(f)
	var partial string
	for {
		chunk, err := reader.ReadString('\n')
		switch {
		case err == nil:
			line := partial + chunk
			partial = ""
			if sig := t.parser.Feed(line); t.seen.admit(sig) {
				select {
				case out <- *sig:
				case <-ctx.Done():
					return
				}
			}
		case err == io.EOF:
			// Hold an incomplete trailing line until the writer finishes it.
			partial += chunk
			if waitErr := t.pacer.Wait(ctx); waitErr != nil {
				return
			}
		default:
			observ.LogError("tail_read_failed", err, map[string]any{"path": t.cfg.Path})
			return
		}
	}
}
