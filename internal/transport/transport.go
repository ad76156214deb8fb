// Package transport supplies parsed, deduplicated signals from upstream
// text sources: a one-shot file read, a live polling file tail, and a
// Telegram group subscription. Every source drives its own block parser and
// suppresses repeat emissions by dedup key before forwarding, so downstream
// consumers see each event once per source.
package transport

import (
	"context"
	"errors"

	"github.com/nagaraj556534/QuotexTrading/internal/signal"
)

// ErrSourceNeverAppeared reports an existence wait that exhausted its retry
// budget, as opposed to a source that exists but is silent.
var ErrSourceNeverAppeared = errors.New("signal source never appeared")

// Source streams deduplicated signals until the context is cancelled or the
// upstream ends. The returned channel is closed when the source stops.
type Source interface {
	Start(ctx context.Context) (<-chan signal.Signal, error)
}

// seenKeys is the per-source dedup set. It grows for the life of a run; a
// run corresponds to one tailing session, not a long-lived server.
type seenKeys map[string]struct{}

func (s seenKeys) admit(sig *signal.Signal) bool {
	if sig == nil {
		return false
	}
	k := sig.Key()
	if _, dup := s[k]; dup {
		return false
	}
	s[k] = struct{}{}
	return true
}
