package decision

import "time"

// CooldownTable maps an asset to the instant until which further signals for
// it are suppressed. Lookups treat missing or expired entries as "no
// cooldown", so entries expire naturally and never need eviction. The table
// is owned by one sequential processing path; a multi-worker extension would
// need the check-and-arm pair to become an atomic compare-and-update.
type CooldownTable struct {
	until map[string]time.Time
}

func NewCooldownTable() *CooldownTable {
	return &CooldownTable{until: make(map[string]time.Time)}
}

// Active reports whether the asset is inside its cooldown window. The window
// is half-open: a signal arriving exactly at the stored instant is admitted.
func (t *CooldownTable) Active(asset string, now time.Time) bool {
	return now.Before(t.until[asset])
}

// Arm (re)sets the asset's suppression window. Every handled signal arms it,
// accepted or not, so even a rejected signal suppresses rapid repeats.
func (t *CooldownTable) Arm(asset string, until time.Time) {
	t.until[asset] = until
}

// Until returns the stored suppression instant, zero when none.
func (t *CooldownTable) Until(asset string) time.Time {
	return t.until[asset]
}
