// Package decision classifies scheduled signals as accepted or ignored with
// a machine-readable reason: forecast threshold, per-asset cooldown, and a
// missed-entry grace window, evaluated in that fixed order.
package decision

import (
	"time"

	"github.com/nagaraj556534/QuotexTrading/internal/observ"
	"github.com/nagaraj556534/QuotexTrading/internal/signal"
)

// Verdict reasons. ReasonOK marks an accepted signal.
const (
	ReasonOK            = "ok"
	ReasonForecastBelow = "forecast_below_threshold"
	ReasonAssetCooldown = "asset_cooldown"
	ReasonMissedEntry   = "missed_entry"
)

type Config struct {
	MinForecastPct     float64 // forecast below this is ignored; unknown forecast passes
	MinPayoutPct       float64 // reserved: gating needs a broker payout lookup first
	CooldownSameAssetS int     // per-asset suppression window
	AllowPastGraceS    int     // entry instants at most this far in the past still trade
}

// Filter is the admission stage. It owns the cooldown table and is driven by
// exactly one sequential consumer.
type Filter struct {
	cfg       Config
	cooldowns *CooldownTable
}

func NewFilter(cfg Config) *Filter {
	return &Filter{cfg: cfg, cooldowns: NewCooldownTable()}
}

// Cooldowns exposes the table for inspection.
func (f *Filter) Cooldowns() *CooldownTable { return f.cooldowns }

// Evaluate applies the admission rules in priority order, first match wins.
// Regardless of the verdict the asset's cooldown is re-armed to
// now + CooldownSameAssetS. An unscheduled signal (nil TradeEpoch) cannot be
// checked against the missed-entry rule; only that rule is skipped.
func (f *Filter) Evaluate(sig signal.ScheduledSignal, now time.Time) signal.ScheduledSignal {
	inCooldown := f.cooldowns.Active(sig.Asset, now)
	f.cooldowns.Arm(sig.Asset, now.Add(time.Duration(f.cfg.CooldownSameAssetS)*time.Second))

	switch {
	case sig.ForecastPct != nil && *sig.ForecastPct < f.cfg.MinForecastPct:
		return f.ignore(sig, ReasonForecastBelow)
	case inCooldown:
		return f.ignore(sig, ReasonAssetCooldown)
	case f.missedEntry(sig, now):
		return f.ignore(sig, ReasonMissedEntry)
	}

	sig.Ignored = false
	sig.Reason = ReasonOK
	observ.IncCounter("signals_accepted_total", map[string]string{"asset": sig.Asset})
	return sig
}

func (f *Filter) missedEntry(sig signal.ScheduledSignal, now time.Time) bool {
	if sig.TradeEpoch == nil {
		return false
	}
	entry := *sig.TradeEpoch - int64(sig.EntryLeadS)
	late := now.Unix() - entry
	// Within grace it is still accepted as a last-chance attempt.
	return late > int64(f.cfg.AllowPastGraceS)
}

func (f *Filter) ignore(sig signal.ScheduledSignal, reason string) signal.ScheduledSignal {
	sig.Ignored = true
	sig.Reason = reason
	observ.IncCounter("signals_ignored_total", map[string]string{"reason": reason})
	return sig
}
