// Package buffer provides a segmented, append-only buffer for elements that
// usually see little traffic but must absorb the occasional burst. The first
// chunk of 16 slots lives inline in the Buffer itself, so light use never
// allocates; overflow extends the buffer one linked chunk at a time and the
// extra capacity is kept, on the expectation that a hot buffer stays hot.
//
// Push is safe under arbitrary concurrency. Reading is destructive and needs
// exclusive access: Drain yields the elements and leaves the buffer empty.
//
// Chunks come from the Go heap by default. A ChunkPool instead carves them
// out of a shared poolgo.Pool, so many short-lived buffers recycle the same
// chunk storage instead of churning the allocator.
package buffer

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/poolgo"
)

// ChunkSize is the number of element slots per chunk. The first chunk is
// inline; every ChunkSize elements beyond it link in one more chunk.
const ChunkSize = 16

type chunk[T any] struct {
	items [ChunkSize]T
	next  atomic.Pointer[chunk[T]]

	// mu serializes allocation of next. Racing pushers double-check next
	// under the lock so exactly one of them extends the chain.
	mu sync.Mutex

	// handle is set when the chunk was carved from a ChunkPool; releasing
	// it on reset returns the chunk's slot to the pool.
	handle *poolgo.Handle[chunk[T]]
}

// Buffer is a segmented append-only buffer. The zero value is not usable;
// create buffers with New or ChunkPool.Create.
type Buffer[T any] struct {
	head  chunk[T] // inline first chunk
	count atomic.Int64

	pool *poolgo.Pool[chunk[T]] // nil: overflow chunks from the Go heap
}

// New creates an empty buffer with an inline capacity of ChunkSize. Overflow
// chunks are allocated from the Go heap.
func New[T any]() *Buffer[T] {
	return &Buffer[T]{}
}

// Push appends item. Safe for concurrent use; each push reserves a distinct
// position, extending the chunk chain when the reserved position lies past
// the allocated capacity.
//
// When the buffer is backed by a ChunkPool whose pool refuses to grow (a
// resource controller out of budget), Push panics: the buffer has no way to
// un-reserve the position, and storage exhaustion is not a recoverable
// condition here.
func (b *Buffer[T]) Push(item T) {
	index := int(b.count.Add(1) - 1)

	c := &b.head
	for index >= ChunkSize {
		c = b.extend(c)
		index -= ChunkSize
	}
	c.items[index] = item
}

// extend returns c's successor chunk, allocating it if nobody has yet.
func (b *Buffer[T]) extend(c *chunk[T]) *chunk[T] {
	if next := c.next.Load(); next != nil {
		return next
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if next := c.next.Load(); next != nil {
		return next
	}

	var next *chunk[T]
	if b.pool != nil {
		h, err := b.pool.Insert(chunk[T]{})
		if err != nil {
			panic(fmt.Sprintf("buffer: chunk allocation failed: %v", err))
		}
		next = h.Value()
		next.handle = h
	} else {
		next = new(chunk[T])
	}
	c.next.Store(next)
	return next
}

// Len returns the number of pushed elements. Under concurrent pushes the
// result is a moving target; it is exact once pushers have quiesced.
func (b *Buffer[T]) Len() int {
	return int(b.count.Load())
}

// Drain returns an iterator over the buffered elements in push-position
// order, emptying the buffer. The caller must hold exclusive access: no
// concurrent Push or second Drain. Stopping the iteration early still
// discards the remaining elements and resets the buffer; the reset happens
// when the iterator finishes or is abandoned, not when Drain returns.
func (b *Buffer[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer b.reset()

		remaining := b.Len()
		for c := &b.head; c != nil && remaining > 0; c = c.next.Load() {
			limit := ChunkSize
			if remaining < limit {
				limit = remaining
			}
			for i := 0; i < limit; i++ {
				if !yield(c.items[i]) {
					return
				}
			}
			remaining -= limit
		}
	}
}

// Reset discards all elements without yielding them. Same exclusivity
// requirement as Drain.
func (b *Buffer[T]) Reset() {
	b.reset()
}

// reset clears every chunk, releases pooled chunks back to their pool and
// unlinks the chain. Clearing drops the references old elements held.
func (b *Buffer[T]) reset() {
	var empty [ChunkSize]T

	c := &b.head
	for c != nil {
		next := c.next.Load()
		h := c.handle

		if h != nil {
			// Releasing zeroes the whole chunk slot, items included.
			h.Release()
		} else {
			c.items = empty
			c.next.Store(nil)
		}
		c = next
	}
	b.count.Store(0)
}
