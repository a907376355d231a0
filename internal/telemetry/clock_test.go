package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockNeverTouched(t *testing.T) {
	c := NewClock()
	assert.True(t, c.Stale(time.Second), "untouched clock is stale for any positive ttl")
	_, ok := c.Age()
	assert.False(t, ok)
}

func TestClockDisabledTTL(t *testing.T) {
	c := NewClock()
	assert.False(t, c.Stale(0))
	assert.False(t, c.Stale(-time.Minute))
}

func TestClockTransitions(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	c := NewClock()
	c.now = func() time.Time { return now }

	c.Touch()
	assert.False(t, c.Stale(10*time.Second))

	age, ok := c.Age()
	assert.True(t, ok)
	assert.Equal(t, time.Duration(0), age)

	now = now.Add(10 * time.Second)
	assert.False(t, c.Stale(10*time.Second), "exactly ttl old is not yet stale")

	now = now.Add(time.Nanosecond)
	assert.True(t, c.Stale(10*time.Second))

	c.Touch()
	assert.False(t, c.Stale(10*time.Second), "touch resets staleness")
}
