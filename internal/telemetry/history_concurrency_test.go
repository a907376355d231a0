package telemetry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Readers must only ever observe fully-applied records while a backlog replay
// hammers the store.
func TestHistoryStoreConcurrentUpsertAndList(t *testing.T) {
	s := NewHistoryStore()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Upsert(map[string]any{
					"position_id":    fmt.Sprintf("%d", i%10),
					"profit":         float64(w*100 + i),
					"time_done":      "2025-08-01T10:00:00Z",
					"volume_initial": 1.0,
				})
			}
		}(w)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			for _, rec := range s.List() {
				assert.NotEmpty(t, rec.Revision, "no partially-applied record may be visible")
				assert.False(t, rec.UpdatedAt.IsZero())
			}
			ComputeStats(NewAccountCell(), s)
		}
	}()
	wg.Wait()

	assert.Equal(t, 10, s.Len(), "ten distinct keys regardless of interleaving")
}
