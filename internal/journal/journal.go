// Package journal persists every handled signal to an append-only CSV log
// and accepted orders to a JSONL outbox keyed for idempotency.
package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nagaraj556534/QuotexTrading/internal/signal"
)

var csvHeader = []string{
	"ts_local",
	"asset",
	"direction",
	"timeframe_min",
	"trade_time",
	"forecast_pct",
	"payout_pct",
	"trade_epoch",
	"seconds_until_entry",
	"ignored",
	"reason",
	"raw",
}

// maxRawCol bounds the raw-block column, in runes, so one noisy message
// cannot bloat the log. Counting runes keeps the cut off multi-byte glyphs.
const maxRawCol = 200

// SignalLog appends one CSV row per handled signal, accepted or ignored.
type SignalLog struct {
	path string
}

func NewSignalLog(path string) (*SignalLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return &SignalLog{path: path}, nil
}

// Record appends the signal's verdict row, writing the header first on a
// fresh file.
func (l *SignalLog) Record(sig signal.ScheduledSignal, now time.Time) error {
	_, statErr := os.Stat(l.path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}

	raw := strings.ReplaceAll(sig.RawBlock, "\n", " | ")
	if r := []rune(raw); len(r) > maxRawCol {
		raw = string(r[:maxRawCol])
	}
	row := []string{
		now.Format("2006-01-02 15:04:05"),
		sig.Asset,
		string(sig.Direction),
		formatIntPtr(sig.TimeframeMin),
		sig.TradeTime,
		formatFloatPtr(sig.ForecastPct),
		formatFloatPtr(sig.PayoutPct),
		formatEpoch(sig.TradeEpoch),
		strconv.FormatInt(sig.SecondsUntilEntry(now), 10),
		boolCol(sig.Ignored),
		sig.Reason,
		raw,
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatEpoch(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func boolCol(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
