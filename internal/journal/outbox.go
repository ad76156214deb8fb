package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Order is one accepted signal handed to the executor, recorded for audit
// and idempotency. The idempotency key is the signal's dedup key.
type Order struct {
	Asset          string    `json:"asset"`
	Direction      string    `json:"direction"`
	TradeTime      string    `json:"trade_time,omitempty"`
	TradeEpoch     *int64    `json:"trade_epoch,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Status         string    `json:"status"`
	IdempotencyKey string    `json:"idempotency_key"`
}

type outboxEntry struct {
	Type  string    `json:"type"`
	Data  Order     `json:"data"`
	Event time.Time `json:"event"`
}

// Outbox appends orders as JSON lines and answers recent-order lookups so a
// restart inside the dedupe window cannot double-submit.
type Outbox struct {
	path         string
	dedupeWindow time.Duration
}

func NewOutbox(path string, dedupeWindowSecs int) (*Outbox, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create outbox dir: %w", err)
	}
	return &Outbox{
		path:         path,
		dedupeWindow: time.Duration(dedupeWindowSecs) * time.Second,
	}, nil
}

func (o *Outbox) WriteOrder(order Order) error {
	entry := outboxEntry{Type: "order", Data: order, Event: time.Now().UTC()}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(o.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(string(data) + "\n")
	return err
}

// HasRecentOrder reports whether an order with the given idempotency key was
// written inside the dedupe window.
func (o *Outbox) HasRecentOrder(idempotencyKey string) (bool, error) {
	if _, err := os.Stat(o.path); os.IsNotExist(err) {
		return false, nil
	}

	data, err := os.ReadFile(o.path)
	if err != nil {
		return false, err
	}

	cutoff := time.Now().UTC().Add(-o.dedupeWindow)
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		var entry outboxEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Type != "order" || entry.Event.Before(cutoff) {
			continue
		}
		if entry.Data.IdempotencyKey == idempotencyKey {
			return true, nil
		}
	}
	return false, nil
}
