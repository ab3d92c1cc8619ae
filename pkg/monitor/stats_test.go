package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCountsEachAccess(t *testing.T) {
	as := NewAccessStats()

	first := as.Observe()
	second := as.Observe()

	assert.Equal(t, uint64(1), first.AccessCount)
	assert.Equal(t, uint64(2), second.AccessCount)
	assert.Equal(t, as.LoadedAt, second.LoadedAt)
	assert.False(t, second.Now.Before(first.Now))
	assert.GreaterOrEqual(t, second.Uptime, time.Duration(0))
	assert.Equal(t, uint64(2), as.Count())
}

func TestHitConcurrentValuesAreDistinct(t *testing.T) {
	const workers, perWorker = 8, 500
	as := NewAccessStats()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[uint64]struct{}, workers*perWorker)
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]uint64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, as.Hit())
			}
			mu.Lock()
			for _, v := range local {
				seen[v] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
	assert.Equal(t, uint64(workers*perWorker), as.Count())
}
