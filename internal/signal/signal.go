// Package signal reconstructs structured trade signals from loosely
// formatted, emoji-tagged chat text delivered one line at a time.
//
// A typical block looks like:
//
//	WIN ✅
//	💳 USDBDT-OTC
//	🔥 M1
//	⌛ 23:10:00
//	🔽 put
//
//	🚦 Tend: Sell
//	📈 Forecast: 73.35%
//	💸 Payout: 82.0%
//
// Blocks are not reliably delimited upstream, so the parser treats asset
// markers, outcome markers and blank lines as overlapping boundary hints
// and emits eagerly as soon as the minimal fields are known.
package signal

import "time"

// Direction is the side of a binary-options signal.
type Direction string

const (
	DirectionCall Direction = "call"
	DirectionPut  Direction = "put"
)

// Signal is one parsed announcement, immutable once constructed.
// Optional numeric fields are nil when the block never carried them;
// optional string fields use "" for absent.
type Signal struct {
	Asset        string    `json:"asset"`
	Direction    Direction `json:"direction"`
	TimeframeMin *int      `json:"timeframe_min,omitempty"`
	TradeTime    string    `json:"trade_time,omitempty"` // literal "HH:MM[:SS]" from the block, not yet a date
	Trend        string    `json:"trend,omitempty"`      // "Buy" or "Sell"
	ForecastPct  *float64  `json:"forecast_pct,omitempty"`
	PayoutPct    *float64  `json:"payout_pct,omitempty"`
	RawBlock     string    `json:"raw_block,omitempty"`
}

// Key is the dedup identity of a signal. Two signals with equal keys are the
// same event. A missing trade time contributes an empty segment, so two
// timeless signals for the same asset and direction collide on purpose (the
// keyspace grows for the life of a tailing session; see the dedup sets in
// the transport and follower packages).
func (s Signal) Key() string {
	return s.Asset + "|" + s.TradeTime + "|" + string(s.Direction)
}

// ScheduledSignal is a Signal stamped with an absolute entry schedule and,
// after admission, a verdict.
type ScheduledSignal struct {
	Signal

	TradeEpoch *int64 `json:"trade_epoch,omitempty"` // unix seconds; nil when unscheduled
	EntryLeadS int    `json:"entry_lead_s"`          // seconds before TradeEpoch the order should be placed

	Ignored bool   `json:"ignored"`
	Reason  string `json:"reason,omitempty"`
}

// SecondsUntilEntry returns the time remaining until the order should be
// placed, not until the trade itself fires. Zero when unscheduled.
func (s ScheduledSignal) SecondsUntilEntry(now time.Time) int64 {
	if s.TradeEpoch == nil {
		return 0
	}
	return *s.TradeEpoch - int64(s.EntryLeadS) - now.Unix()
}
