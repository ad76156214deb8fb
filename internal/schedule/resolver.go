// Package schedule maps a signal's bare wall-clock trade time onto an
// absolute future instant under the broadcaster's assumed UTC offset.
package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/nagaraj556534/QuotexTrading/internal/signal"
)

// Resolve interprets tradeTime ("HH:MM[:SS]") on the reference instant's
// calendar date in a fixed zone tzOffsetMin minutes east of UTC. A candidate
// that is not strictly after the reference rolls forward one calendar day,
// so a time that already passed today schedules for tomorrow; a candidate
// exactly equal to the reference counts as passed. Malformed input reports
// ok=false (unscheduled) rather than an error.
func Resolve(tradeTime string, ref time.Time, tzOffsetMin int) (epoch int64, ok bool) {
	h, m, s, ok := splitClock(tradeTime)
	if !ok {
		return 0, false
	}

	loc := time.FixedZone("feed", tzOffsetMin*60)
	local := ref.In(loc)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), h, m, s, 0, loc)
	if !candidate.After(ref) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate.Unix(), true
}

func splitClock(v string) (h, m, s int, ok bool) {
	parts := strings.Split(v, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if h, err = strconv.Atoi(parts[0]); err != nil || h < 0 || h > 23 {
		return 0, 0, 0, false
	}
	if m, err = strconv.Atoi(parts[1]); err != nil || m < 0 || m > 59 {
		return 0, 0, 0, false
	}
	if len(parts) == 3 {
		if s, err = strconv.Atoi(parts[2]); err != nil || s < 0 || s > 59 {
			return 0, 0, 0, false
		}
	}
	return h, m, s, true
}

// Resolver stamps parsed signals with their entry schedule.
type Resolver struct {
	TZOffsetMin      int // broadcaster's local clock, minutes east of UTC
	EntryLeadS       int // place the order this many seconds before the trade fires
	DefaultExpiryMin int // timeframe assumed when the block never carried one
}

// Schedule converts a raw signal into a ScheduledSignal. A missing or
// malformed trade time yields an unscheduled signal (nil TradeEpoch); the
// admission filter skips only its missed-entry rule for those.
func (r Resolver) Schedule(sig signal.Signal, now time.Time) signal.ScheduledSignal {
	out := signal.ScheduledSignal{Signal: sig, EntryLeadS: r.EntryLeadS}
	if out.TimeframeMin == nil && r.DefaultExpiryMin > 0 {
		d := r.DefaultExpiryMin
		out.TimeframeMin = &d
	}
	if sig.TradeTime != "" {
		if epoch, ok := Resolve(sig.TradeTime, now, r.TZOffsetMin); ok {
			out.TradeEpoch = &epoch
		}
	}
	return out
}
