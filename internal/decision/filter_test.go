package decision

import (
	"testing"
	"time"

	"github.com/nagaraj556534/QuotexTrading/internal/signal"
)

func scheduled(asset string, forecast *float64, entryIn int64, now time.Time) signal.ScheduledSignal {
	epoch := now.Unix() + entryIn + 5 // entry instant = epoch - lead
	return signal.ScheduledSignal{
		Signal:     signal.Signal{Asset: asset, Direction: signal.DirectionCall, TradeTime: "10:00", ForecastPct: forecast},
		TradeEpoch: &epoch,
		EntryLeadS: 5,
	}
}

func f64(v float64) *float64 { return &v }

func TestForecastBelowThresholdIgnored(t *testing.T) {
	f := NewFilter(Config{MinForecastPct: 70, CooldownSameAssetS: 90, AllowPastGraceS: 8})
	now := time.Now()

	out := f.Evaluate(scheduled("EURUSD-OTC", f64(60), 120, now), now)
	if !out.Ignored || out.Reason != ReasonForecastBelow {
		t.Fatalf("verdict = %v/%q, want ignored/%q", out.Ignored, out.Reason, ReasonForecastBelow)
	}
}

func TestUnknownForecastPasses(t *testing.T) {
	f := NewFilter(Config{MinForecastPct: 70, CooldownSameAssetS: 90, AllowPastGraceS: 8})
	now := time.Now()

	out := f.Evaluate(scheduled("EURUSD-OTC", nil, 120, now), now)
	if out.Ignored {
		t.Fatalf("unknown forecast rejected: %q", out.Reason)
	}
}

func TestCooldownBlocksRepeatEvenWhenOtherwisePassing(t *testing.T) {
	f := NewFilter(Config{MinForecastPct: 70, CooldownSameAssetS: 90, AllowPastGraceS: 8})
	now := time.Now()

	first := f.Evaluate(scheduled("EURUSD-OTC", f64(80), 120, now), now)
	if first.Ignored {
		t.Fatalf("first signal rejected: %q", first.Reason)
	}

	second := f.Evaluate(scheduled("EURUSD-OTC", f64(95), 300, now.Add(10*time.Second)), now.Add(10*time.Second))
	if !second.Ignored || second.Reason != ReasonAssetCooldown {
		t.Fatalf("verdict = %v/%q, want ignored/%q", second.Ignored, second.Reason, ReasonAssetCooldown)
	}

	// A different asset is unaffected.
	other := f.Evaluate(scheduled("GBPJPY-OTC", f64(95), 300, now), now)
	if other.Ignored {
		t.Fatalf("unrelated asset caught by cooldown: %q", other.Reason)
	}
}

func TestCooldownExpires(t *testing.T) {
	f := NewFilter(Config{CooldownSameAssetS: 90, AllowPastGraceS: 8})
	now := time.Now()

	f.Evaluate(scheduled("EURUSD-OTC", nil, 120, now), now)
	later := now.Add(91 * time.Second)
	out := f.Evaluate(scheduled("EURUSD-OTC", nil, 120, later), later)
	if out.Ignored {
		t.Fatalf("expired cooldown still blocking: %q", out.Reason)
	}
}

func TestRejectedSignalStillArmsCooldown(t *testing.T) {
	f := NewFilter(Config{MinForecastPct: 70, CooldownSameAssetS: 90, AllowPastGraceS: 8})
	now := time.Now()

	f.Evaluate(scheduled("EURUSD-OTC", f64(10), 120, now), now)
	if until := f.Cooldowns().Until("EURUSD-OTC"); !until.After(now) {
		t.Fatal("rejected signal did not arm the cooldown")
	}

	out := f.Evaluate(scheduled("EURUSD-OTC", f64(95), 120, now.Add(time.Second)), now.Add(time.Second))
	if !out.Ignored || out.Reason != ReasonAssetCooldown {
		t.Fatalf("verdict = %v/%q, want ignored/%q", out.Ignored, out.Reason, ReasonAssetCooldown)
	}
}

func TestMissedEntryWindow(t *testing.T) {
	now := time.Now()

	f := NewFilter(Config{CooldownSameAssetS: 90, AllowPastGraceS: 8})
	out := f.Evaluate(scheduled("EURUSD-OTC", nil, -100, now), now)
	if !out.Ignored || out.Reason != ReasonMissedEntry {
		t.Fatalf("verdict = %v/%q, want ignored/%q", out.Ignored, out.Reason, ReasonMissedEntry)
	}

	// Same lateness inside a wider grace is a last-chance accept.
	f = NewFilter(Config{CooldownSameAssetS: 90, AllowPastGraceS: 200})
	out = f.Evaluate(scheduled("EURUSD-OTC", nil, -100, now), now)
	if out.Ignored {
		t.Fatalf("within-grace signal rejected: %q", out.Reason)
	}
}

func TestUnscheduledSkipsOnlyMissedEntryRule(t *testing.T) {
	f := NewFilter(Config{MinForecastPct: 70, CooldownSameAssetS: 90, AllowPastGraceS: 8})
	now := time.Now()

	unscheduled := signal.ScheduledSignal{
		Signal:     signal.Signal{Asset: "EURUSD-OTC", Direction: signal.DirectionPut, ForecastPct: f64(80)},
		EntryLeadS: 5,
	}
	out := f.Evaluate(unscheduled, now)
	if out.Ignored {
		t.Fatalf("unscheduled signal rejected: %q", out.Reason)
	}

	// Forecast and cooldown rules still apply to unscheduled signals.
	unscheduled.Asset = "GBPJPY-OTC"
	unscheduled.ForecastPct = f64(10)
	out = f.Evaluate(unscheduled, now)
	if !out.Ignored || out.Reason != ReasonForecastBelow {
		t.Fatalf("verdict = %v/%q, want ignored/%q", out.Ignored, out.Reason, ReasonForecastBelow)
	}
}
