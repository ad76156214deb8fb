package signal

import "strings"

// rawBlockLines bounds how much raw text is kept for diagnostics.
const rawBlockLines = 12

// pendingRecord is the mutable accumulator for the block currently being
// parsed. Asset and context fields persist across blank lines until a new
// asset marker arrives; direction is cleared after every emission so a later
// directional line in the same block can surface a second signal without
// re-emitting the first.
type pendingRecord struct {
	asset        string
	direction    Direction
	timeframeMin *int
	tradeTime    string
	trend        string
	forecastPct  *float64
	payoutPct    *float64
}

// BlockParser folds field extractor output into a pending record and decides
// block boundaries. It is owned by exactly one sequential consumer; sharing
// one parser across tailing sessions corrupts its boundary assumptions.
type BlockParser struct {
	pending pendingRecord
	lines   []string
}

func NewBlockParser() *BlockParser {
	return &BlockParser{}
}

// Reset discards the pending record and raw-line buffer.
func (p *BlockParser) Reset() {
	p.pending = pendingRecord{}
	p.lines = p.lines[:0]
}

// Feed consumes one line of chat text and returns a Signal when one can be
// emitted, nil otherwise. It never fails: malformed fields are skipped and
// parsing continues.
//
// Blank lines trigger a strict emission attempt (asset, direction and trade
// time all known) and otherwise leave state untouched. An asset marker or an
// outcome report first strict-emits whatever was complete before the
// boundary; the asset marker additionally resets the record for the new
// block. After field extraction a lenient emission (asset and direction
// known, everything else as-is) surfaces the signal the instant direction is
// known rather than waiting for a trade-time line that may never arrive.
func (p *BlockParser) Feed(line string) *Signal {
	s := strings.TrimSpace(line)
	if s == "" {
		return p.emit(true)
	}

	p.appendRaw(s)

	if isOutcomeMarker(s) || isAssetMarker(s) {
		prev := p.emit(true)
		if isAssetMarker(s) {
			p.pending = pendingRecord{}
			p.lines = append(p.lines[:0], s)
		}
		if prev != nil {
			// The pre-boundary signal; the reset above already happened.
			return prev
		}
	}

	// Last write wins: a repeated field inside a block simply replaces.
	if v, ok := extractAsset(s); ok {
		p.pending.asset = v
	}
	if v, ok := extractTimeframe(s); ok {
		p.pending.timeframeMin = &v
	}
	if v, ok := extractTradeTime(s); ok {
		p.pending.tradeTime = v
	}
	if v, ok := extractDirection(s); ok {
		p.pending.direction = v
	}
	if v, ok := extractTrend(s); ok {
		p.pending.trend = v
	}
	if v, ok := extractForecast(s); ok {
		p.pending.forecastPct = &v
	}
	if v, ok := extractPayout(s); ok {
		p.pending.payoutPct = &v
	}

	return p.emit(false)
}

// emit snapshots the pending record into a Signal when the required fields
// are present. Strict mode additionally requires a trade time. A failed
// attempt leaves the record intact; a successful one clears only the
// direction slot so the established asset context is reusable by the next
// directional line in the same block.
func (p *BlockParser) emit(strict bool) *Signal {
	if p.pending.asset == "" || p.pending.direction == "" {
		return nil
	}
	if strict && p.pending.tradeTime == "" {
		return nil
	}

	sig := Signal{
		Asset:     p.pending.asset,
		Direction: p.pending.direction,
		TradeTime: p.pending.tradeTime,
		Trend:     p.pending.trend,
		RawBlock:  strings.Join(p.lines, "\n"),
	}
	if p.pending.timeframeMin != nil {
		tf := *p.pending.timeframeMin
		sig.TimeframeMin = &tf
	}
	if p.pending.forecastPct != nil {
		f := *p.pending.forecastPct
		sig.ForecastPct = &f
	}
	if p.pending.payoutPct != nil {
		pay := *p.pending.payoutPct
		sig.PayoutPct = &pay
	}

	p.pending.direction = ""
	return &sig
}

func (p *BlockParser) appendRaw(s string) {
	p.lines = append(p.lines, s)
	if len(p.lines) > rawBlockLines {
		p.lines = p.lines[len(p.lines)-rawBlockLines:]
	}
}
