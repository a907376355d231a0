// Package audit keeps a bounded in-memory trail of ingest attempts. One entry
// is appended per ingest call, success or failure, and entries are never
// mutated after append.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"livedesk/internal/logger"
)

// DefaultCapacity bounds the in-memory trail; oldest entries evict first.
const DefaultCapacity = 100

// Entry is one ingest attempt outcome.
type Entry struct {
	ID      string         `json:"id"`
	At      time.Time      `json:"at"`
	Addr    string         `json:"addr"`
	OK      bool           `json:"ok"`
	Reason  string         `json:"reason,omitempty"`
	Preview string         `json:"preview,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// Sink receives entries for durable storage. Writes are best effort: a sink
// failure is logged and otherwise ignored, and never rolls back an ingest.
type Sink interface {
	Write(Entry) error
}

// Trail is the FIFO-bounded entry buffer.
type Trail struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	sink     Sink
}

func NewTrail(capacity int, sink Sink) *Trail {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Trail{capacity: capacity, sink: sink}
}

// Append stamps the entry with an ID and timestamp if missing, stores it and
// forwards it to the sink. The sink write happens outside the trail lock.
func (t *Trail) Append(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	t.mu.Lock()
	t.entries = append(t.entries, e)
	if len(t.entries) > t.capacity {
		t.entries = t.entries[len(t.entries)-t.capacity:]
	}
	t.mu.Unlock()

	if t.sink != nil {
		if err := t.sink.Write(e); err != nil {
			logger.Warnf("audit sink write failed: %v", err)
		}
	}
	return e
}

// Recent returns up to limit entries, most recent last. limit is clamped to
// the trail capacity; non-positive means "everything retained".
func (t *Trail) Recent(limit int) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if limit <= 0 || limit > t.capacity {
		limit = t.capacity
	}
	n := len(t.entries)
	if limit > n {
		limit = n
	}
	out := make([]Entry, limit)
	copy(out, t.entries[n-limit:])
	return out
}

// Len returns the number of retained entries.
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
