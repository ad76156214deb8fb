// Package observ provides the follower's structured JSON event logging and
// a small in-process metrics registry.
package observ

import (
	"encoding/json"
	"fmt"
	"time"
)

// Log emits one JSON event line on stdout.
func Log(event string, kv map[string]any) {
	if kv == nil {
		kv = map[string]any{}
	}
	kv["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	kv["event"] = event
	b, _ := json.Marshal(kv)
	fmt.Println(string(b))
}

// LogError emits an error event without aborting the caller; ingestion paths
// log and continue.
func LogError(event string, err error, kv map[string]any) {
	if kv == nil {
		kv = map[string]any{}
	}
	kv["error"] = err.Error()
	Log(event, kv)
}
