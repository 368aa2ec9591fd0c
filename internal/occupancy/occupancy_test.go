package occupancy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	tr := NewTracker()
	assert.Zero(t, tr.Cardinality())
	assert.Empty(t, tr.Snapshot())

	tr.Add(0)
	tr.Add(2)
	tr.Add(7)
	assert.Equal(t, uint64(3), tr.Cardinality())
	assert.Equal(t, []uint32{0, 2, 7}, tr.Snapshot())

	tr.Remove(2)
	assert.Equal(t, []uint32{0, 7}, tr.Snapshot())

	// Removing an absent index is harmless.
	tr.Remove(1000)
	assert.Equal(t, uint64(2), tr.Cardinality())
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				idx := uint32(g*1000 + i)
				tr.Add(idx)
				tr.Remove(idx)
			}
		}(g)
	}
	wg.Wait()

	assert.Zero(t, tr.Cardinality())
}
