// Replay parses a histories file once and prints every distinct signal as a
// JSON line, optionally running each through scheduling and admission to
// preview the verdicts a live session would have produced.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/nagaraj556534/QuotexTrading/internal/config"
	"github.com/nagaraj556534/QuotexTrading/internal/decision"
	"github.com/nagaraj556534/QuotexTrading/internal/schedule"
	"github.com/nagaraj556534/QuotexTrading/internal/transport"
)

func main() {
	log.SetFlags(0)
	var (
		filePath   = flag.String("file", "histories.txt", "histories file to parse")
		configPath = flag.String("config", "", "path to YAML config (optional)")
		verdicts   = flag.Bool("verdicts", false, "also run scheduling and admission")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config %s: %v", *configPath, err)
	}
	config.ApplyEnv(&cfg)

	sigs, err := transport.ParseFile(*filePath)
	if err != nil {
		log.Fatalf("parse %s: %v", *filePath, err)
	}

	if !*verdicts {
		for _, s := range sigs {
			printJSON(s)
		}
		return
	}

	resolver := schedule.Resolver{
		TZOffsetMin:      cfg.TZOffset(),
		EntryLeadS:       cfg.EntryLeadS,
		DefaultExpiryMin: cfg.DefaultExpiryMin,
	}
	filter := decision.NewFilter(decision.Config{
		MinForecastPct:     cfg.MinForecastPct,
		MinPayoutPct:       cfg.MinPayoutPct,
		CooldownSameAssetS: cfg.CooldownSameAssetS,
		AllowPastGraceS:    cfg.AllowPastGraceS,
	})

	now := time.Now()
	for _, s := range sigs {
		printJSON(filter.Evaluate(resolver.Schedule(s, now), now))
	}
}

func printJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(b))
}
