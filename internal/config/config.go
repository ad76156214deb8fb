// Package config loads follower configuration from a YAML file with
// defaults, then overlays environment variables for credentials and the
// knobs operators tune per session.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Telegram struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type Root struct {
	MinForecastPct      float64  `yaml:"min_forecast_pct"`
	MinPayoutPct        float64  `yaml:"min_payout_pct"`
	CooldownSameAssetS  int      `yaml:"cooldown_same_asset_s"`
	AllowPastGraceS     int      `yaml:"allow_past_grace_s"`
	EntryLeadS          int      `yaml:"entry_lead_s"`
	DefaultExpiryMin    int      `yaml:"default_expiry_min"`
	TZOffsetMin         *int     `yaml:"tz_offset_min"` // pointer: 0 (UTC) is a valid setting
	PollIntervalMs      int      `yaml:"poll_interval_ms"`
	ExistRetries        int      `yaml:"exist_retries"`
	ExecQueueSize       int      `yaml:"exec_queue_size"`
	JournalCSV          string   `yaml:"journal_csv"`
	OutboxPath          string   `yaml:"outbox_path"`
	OutboxDedupeWindowS int      `yaml:"outbox_dedupe_window_s"`
	Trade               bool     `yaml:"trade"`
	Telegram            Telegram `yaml:"telegram"`
}

// TZOffset returns the broadcaster clock offset in minutes east of UTC.
func (c Root) TZOffset() int {
	if c.TZOffsetMin == nil {
		return 330 // the feed broadcasts on an IST clock unless told otherwise
	}
	return *c.TZOffsetMin
}

// Load reads the YAML file at path and fills defaults. An empty path yields
// the default configuration.
func Load(path string) (Root, error) {
	var c Root
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, err
		}
	}

	if c.CooldownSameAssetS == 0 {
		c.CooldownSameAssetS = 90
	}
	if c.AllowPastGraceS == 0 {
		c.AllowPastGraceS = 8
	}
	if c.EntryLeadS == 0 {
		c.EntryLeadS = 5
	}
	if c.DefaultExpiryMin == 0 {
		c.DefaultExpiryMin = 1
	}
	if c.PollIntervalMs == 0 {
		c.PollIntervalMs = 100
	}
	if c.ExistRetries == 0 {
		c.ExistRetries = 200
	}
	if c.ExecQueueSize == 0 {
		c.ExecQueueSize = 16
	}
	if c.JournalCSV == "" {
		c.JournalCSV = "data/signals.csv"
	}
	if c.OutboxPath == "" {
		c.OutboxPath = "data/outbox.jsonl"
	}
	if c.OutboxDedupeWindowS == 0 {
		c.OutboxDedupeWindowS = 90
	}

	return c, nil
}

// ApplyEnv overlays environment variables onto the loaded config. Call it
// after any .env file has been loaded into the process environment.
func ApplyEnv(c *Root) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("S19_MIN_FORECAST"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MinForecastPct = f
		}
	}
	if v := os.Getenv("S19_LEAD_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.EntryLeadS = n
		}
	}
	if v := os.Getenv("S19_COOLDOWN_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CooldownSameAssetS = n
		}
	}
	if v := os.Getenv("S19_TZ_OFFSET_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TZOffsetMin = &n
		}
	}
	if v := os.Getenv("S19_TRADE"); v != "" {
		c.Trade = isTruthy(v)
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}
