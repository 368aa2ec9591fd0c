package poolgo

import (
	"github.com/hupe1980/poolgo/internal/slab"
)

// Handle is the owning reference to one occupied slot. Exactly one live
// Handle references any slot, so access to the contained value needs no
// locking at the Handle level; synchronizing mutation of the value's
// contents across goroutines remains the caller's business.
//
// A Handle keeps its Pool reachable for as long as it lives, so the arena
// can never be collected out from under an outstanding handle. Dropping a
// Handle without calling Release or Recover leaks the slot until the pool
// is closed; with occupancy tracking enabled the leak shows up in
// Occupied() and in the Close error.
//
// A Handle is owned by one goroutine at a time. Hand it off like any other
// owned value; do not call its methods concurrently.
type Handle[T any] struct {
	pool     *Pool[T]
	slot     slab.Slot[T]
	released bool
}

// Value returns a pointer to the contained value for reading and writing.
// It panics if the handle has been released.
func (h *Handle[T]) Value() *T {
	if h.released {
		panic("poolgo: handle used after release")
	}
	return h.slot.Ptr
}

// Recover moves the value out of the slot, returns the slot to the pool and
// yields the value to the caller. The slot becomes free only after the
// value has been extracted. It panics if the handle has been released.
func (h *Handle[T]) Recover() T {
	if h.released {
		panic("poolgo: handle already released")
	}
	v := *h.slot.Ptr
	h.vacate()
	return v
}

// Release discards the contained value and returns the slot to the pool.
// Releasing an already released handle is a no-op, so Release is safe to
// defer alongside a conditional Recover.
func (h *Handle[T]) Release() {
	if h.released {
		return
	}
	h.vacate()
}

// vacate clears the slot and hands it back. Clearing is the pool's
// rendition of running the value's teardown: it drops every reference the
// old value held, so a vacated slot pins nothing for the garbage collector.
func (h *Handle[T]) vacate() {
	var zero T
	*h.slot.Ptr = zero
	h.released = true
	h.pool.releaseSlot(h.slot)
}
