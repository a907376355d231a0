package telemetry

import (
	"fmt"
	"strings"
	"sync"

	"livedesk/internal/pkg/convert"
)

// EquityReading is the latest live equity tick. Unlike trade history there is
// no dedup here: an unchanged reading still proves the producer is alive, so
// every ingest that carries equity data replaces the cell wholesale.
type EquityReading struct {
	Active        bool
	Profit        *float64
	CurrentEquity *float64
	Timestamp     string
}

// TradeDate returns the date part of the reading's timestamp, truncated at
// the first date/time separator ("T" or space). Empty when no timestamp.
func (r EquityReading) TradeDate() string {
	ts := strings.TrimSpace(r.Timestamp)
	if ts == "" {
		return ""
	}
	if i := strings.IndexAny(ts, "T "); i > 0 {
		return ts[:i]
	}
	return ts
}

// EquityCell is a single-slot last-write-wins holder for the most recent
// equity reading.
type EquityCell struct {
	mu      sync.RWMutex
	reading EquityReading
}

func NewEquityCell() *EquityCell {
	return &EquityCell{}
}

// Apply coerces a raw equity object and replaces the cell. A malformed
// numeric field resets the cell to the inactive baseline and returns the
// coercion error so the caller can log it; the error is not fatal to the
// surrounding ingest.
func (c *EquityCell) Apply(raw map[string]any) error {
	reading := EquityReading{}
	if v, ok := raw["isTradeActive"]; ok {
		if b, isBool := v.(bool); isBool {
			reading.Active = b
		}
	}
	if v, ok := raw["t"]; ok {
		reading.Timestamp = convert.ToString(v)
	}
	var err error
	if reading.Profit, err = numericPtr(raw, "profit"); err != nil {
		c.Replace(EquityReading{})
		return err
	}
	if reading.CurrentEquity, err = numericPtr(raw, "currentEquity"); err != nil {
		c.Replace(EquityReading{})
		return err
	}
	c.Replace(reading)
	return nil
}

func numericPtr(raw map[string]any, key string) (*float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, err := convert.StrictFloat64(v)
	if err != nil {
		return nil, fmt.Errorf("equity field %s: %w", key, err)
	}
	return &f, nil
}

// Replace unconditionally overwrites the current reading.
func (c *EquityCell) Replace(r EquityReading) {
	c.mu.Lock()
	c.reading = r
	c.mu.Unlock()
}

// Read returns a copy of the current reading; pointer fields are duplicated
// so callers can never mutate the cell through the result.
func (c *EquityCell) Read() EquityReading {
	c.mu.RLock()
	r := c.reading
	c.mu.RUnlock()
	if r.Profit != nil {
		p := *r.Profit
		r.Profit = &p
	}
	if r.CurrentEquity != nil {
		e := *r.CurrentEquity
		r.CurrentEquity = &e
	}
	return r
}
