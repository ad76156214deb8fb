package signal

import (
	"regexp"
	"strconv"
	"strings"
)

// Field extractors: one stateless matcher per field. Each takes a trimmed
// line and reports whether it carries that field. Malformed numeric values
// are treated as no match so a garbled line can never abort parsing.

const (
	assetMarker   = "💳"
	outcomePrefix = "WIN"
)

var (
	assetRe     = regexp.MustCompile(`(?i)^💳\s*([A-Z0-9\-_/]+)$`)
	timeframeRe = regexp.MustCompile(`(?i)^🔥\s*M(\d+)$`)
	tradeTimeRe = regexp.MustCompile(`^⌛\s*([0-2]?\d:\d{2}(?::\d{2})?)$`)
	callWordRe  = regexp.MustCompile(`(?i)\bcall\b`)
	putWordRe   = regexp.MustCompile(`(?i)\bput\b`)
	trendRe     = regexp.MustCompile(`(?i)^🚦\s*T(?:r)?end\s*:\s*(Buy|Sell)$`)
	forecastRe  = regexp.MustCompile(`(?i)^📈\s*Forecast\s*:\s*([0-9]+(?:\.[0-9]+)?)%$`)
	payoutRe    = regexp.MustCompile(`(?i)^💸\s*Payout\s*:\s*([0-9]+(?:\.[0-9]+)?)%$`)
)

func isAssetMarker(line string) bool {
	return strings.HasPrefix(line, assetMarker)
}

// isOutcomeMarker recognizes result report lines ("WIN ✅" etc.), which mark
// the end of the previous block without starting a new one.
func isOutcomeMarker(line string) bool {
	return strings.HasPrefix(strings.ToUpper(line), outcomePrefix)
}

func extractAsset(line string) (string, bool) {
	m := assetRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func extractTimeframe(line string) (int, bool) {
	m := timeframeRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func extractTradeTime(line string) (string, bool) {
	m := tradeTimeRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// extractDirection matches against the whole line so a direction glyph or
// word can coexist with other content. Call signals take priority over put.
func extractDirection(line string) (Direction, bool) {
	switch {
	case strings.Contains(line, "🔼") || callWordRe.MatchString(line):
		return DirectionCall, true
	case strings.Contains(line, "🔽") || putWordRe.MatchString(line):
		return DirectionPut, true
	}
	return "", false
}

func extractTrend(line string) (string, bool) {
	m := trendRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	v := m[1]
	return strings.ToUpper(v[:1]) + strings.ToLower(v[1:]), true
}

func extractForecast(line string) (float64, bool) {
	return extractPct(forecastRe, line)
}

func extractPayout(line string) (float64, bool) {
	return extractPct(payoutRe, line)
}

func extractPct(re *regexp.Regexp, line string) (float64, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
