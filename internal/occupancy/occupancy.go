// Package occupancy tracks which pool slots are currently live. It is a
// diagnostic facility: the pool's correctness never depends on it, and it is
// only wired in when the caller opts into occupancy tracking.
package occupancy

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Tracker records live slot indices in a roaring bitmap. All methods are
// safe for concurrent use; the mutex is acceptable here because tracking is
// an opt-in debug mode, not the hot path's default.
type Tracker struct {
	mu   sync.Mutex
	live *roaring.Bitmap
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		live: roaring.New(),
	}
}

// Add marks a slot index as live.
func (t *Tracker) Add(index uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.live.Add(index)
}

// Remove marks a slot index as vacated.
func (t *Tracker) Remove(index uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.live.Remove(index)
}

// Cardinality returns the number of live slots.
func (t *Tracker) Cardinality() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.GetCardinality()
}

// Snapshot returns the live slot indices in ascending order.
func (t *Tracker) Snapshot() []uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live.ToArray()
}
