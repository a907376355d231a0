package telemetry

import (
	"sort"
	"sync"
	"time"
)

// Upsert outcome reason codes.
const (
	ReasonMissingIDs    = "missing_ids"
	ReasonInvalidRecord = "invalid_record"
)

// UpsertResult reports what a single upsert did.
type UpsertResult struct {
	Accepted bool
	Changed  bool
	Key      string
	Reason   string
}

// HistoryStore is the keyed, deduplicated collection of closed-trade records.
// The producer resends its full backlog on request, so upserts must stay
// cheap for unchanged entries: the revision fingerprint short-circuits them
// before any state is written.
type HistoryStore struct {
	mu      sync.RWMutex
	records map[string]TradeRecord
	clock   *Clock
	now     func() time.Time
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		records: make(map[string]TradeRecord),
		clock:   NewClock(),
		now:     time.Now,
	}
}

// Upsert normalizes raw, resolves its key (position_id, fallback ticket) and
// merges it. An unchanged revision leaves the stored record untouched,
// UpdatedAt included, but still touches the staleness clock: receiving
// unchanged data proves the feed is alive.
func (s *HistoryStore) Upsert(raw map[string]any) UpsertResult {
	rec, err := normalizeOrder(raw)
	if err != nil {
		return UpsertResult{Reason: ReasonInvalidRecord}
	}
	if rec.Key == "" {
		return UpsertResult{Reason: ReasonMissingIDs}
	}
	rec.Revision = revisionOf(rec)

	s.mu.Lock()
	existing, ok := s.records[rec.Key]
	if ok && existing.Revision == rec.Revision {
		s.mu.Unlock()
		s.clock.Touch()
		return UpsertResult{Accepted: true, Key: rec.Key}
	}
	rec.UpdatedAt = s.now()
	s.records[rec.Key] = rec
	s.mu.Unlock()
	s.clock.Touch()
	return UpsertResult{Accepted: true, Changed: true, Key: rec.Key}
}

// List returns a snapshot of all records ordered by TimeDone descending;
// records with an empty TimeDone sort after all dated ones.
func (s *HistoryStore) List() []TradeRecord {
	s.mu.RLock()
	out := make([]TradeRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].TimeDone, out[j].TimeDone
		switch {
		case a == "" && b == "":
			return false
		case a == "":
			return false
		case b == "":
			return true
		default:
			return a > b
		}
	})
	return out
}

// Len returns the number of stored records.
func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// NeedsResend reports whether the producer should resend the full backlog.
func (s *HistoryStore) NeedsResend(ttl time.Duration) ResendStatus {
	if s.Len() == 0 {
		return ResendStatus{Needs: true, Reason: ResendEmpty}
	}
	if _, ok := s.clock.Age(); !ok {
		return ResendStatus{Needs: true, Reason: ResendNeverSeen}
	}
	if s.clock.Stale(ttl) {
		return ResendStatus{Needs: true, Reason: ResendStale}
	}
	return ResendStatus{}
}
