package telemetry

import (
	"sync"
	"time"
)

// Clock tracks the last instant a component observed fresh data. Staleness is
// computed lazily on read; no background timer exists anywhere in the core.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Touch records an observation at the current instant.
func (c *Clock) Touch() {
	c.mu.Lock()
	c.last = c.now()
	c.mu.Unlock()
}

// Stale reports whether the last observation is older than ttl.
// ttl <= 0 disables the check entirely. A clock that was never touched is
// always stale for a positive ttl.
func (c *Clock) Stale(ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last.IsZero() {
		return true
	}
	return c.now().Sub(c.last) > ttl
}

// Age returns elapsed time since the last observation, and false if no
// observation has ever happened.
func (c *Clock) Age() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last.IsZero() {
		return 0, false
	}
	return c.now().Sub(c.last), true
}
