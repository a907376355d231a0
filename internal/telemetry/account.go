package telemetry

import (
	"encoding/json"
	"sync"
	"time"
)

// ResendStatus answers "should the producer resend this class of data".
type ResendStatus struct {
	Needs      bool     `json:"needs"`
	AgeSeconds *float64 `json:"age_seconds,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

const (
	ResendNeverSeen = "never_seen"
	ResendStale     = "stale"
	ResendEmpty     = "empty"
)

// AccountCell holds the most recent account snapshot verbatim. The schema is
// intentionally open: the producer may add or drop fields without a
// coordinated update, so the cell stores the raw JSON object and never
// interprets it beyond "is this an object".
type AccountCell struct {
	mu    sync.RWMutex
	raw   json.RawMessage
	clock *Clock
}

func NewAccountCell() *AccountCell {
	return &AccountCell{clock: NewClock()}
}

// Replace overwrites the snapshot and refreshes the staleness clock.
func (c *AccountCell) Replace(raw []byte) {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	c.mu.Lock()
	c.raw = cp
	c.mu.Unlock()
	c.clock.Touch()
}

// Read returns the current snapshot, or false if never populated.
func (c *AccountCell) Read() (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.raw == nil {
		return nil, false
	}
	cp := make(json.RawMessage, len(c.raw))
	copy(cp, c.raw)
	return cp, true
}

// NeedsResend reports staleness of the account snapshot under ttl.
func (c *AccountCell) NeedsResend(ttl time.Duration) ResendStatus {
	c.mu.RLock()
	absent := c.raw == nil
	c.mu.RUnlock()
	if absent {
		return ResendStatus{Needs: true, Reason: ResendNeverSeen}
	}
	status := ResendStatus{}
	if age, ok := c.clock.Age(); ok {
		secs := age.Seconds()
		status.AgeSeconds = &secs
	}
	if c.clock.Stale(ttl) {
		status.Needs = true
		status.Reason = ResendStale
	}
	return status
}
