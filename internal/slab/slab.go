// Package slab implements the pool's segment store: an append-only list of
// fixed-size storage batches at stable addresses.
//
// # Memory Management
//
// Each segment is a single []T allocation that is never resized or moved, so
// a slot pointer handed out once stays valid for the store's lifetime. The
// segment list is mutated (appended to) only while holding the store's
// mutex; growth never touches existing segments.
//
// # Cache-Line Mode
//
// With cache-line alignment enabled, the per-slot stride is widened to the
// smallest multiple of the element size that is also a multiple of the CPU
// cache-line size, so two distinct slots can never share a line. The segment
// base is additionally shifted to the first cache-line-aligned element when
// one exists within the first stride; the Go allocator does not guarantee
// one, so base alignment is best effort while stride separation is not.
package slab

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineBytes is the size of a CPU cache line on the target architecture.
var CacheLineBytes = unsafe.Sizeof(cpu.CacheLinePad{})

// Slot is one storage location handed out by the store. Index is the slot's
// global position in allocation order and is stable for the store's
// lifetime; it identifies the slot in diagnostics.
type Slot[T any] struct {
	Ptr   *T
	Index uint32
}

type segment[T any] struct {
	elems []T // backing array, keeps slot memory reachable
	first int // index of slot 0 within elems (alignment shift)
}

// Store owns the segment list. Grow and Release mutate the list and must be
// serialized by the pool's growth lock; the size accessors read an atomic
// counter so diagnostics never touch the slice itself.
type Store[T any] struct {
	batch  int
	stride int // slot spacing in elements

	segments []segment[T]
	count    atomic.Int32 // len(segments), readable without the growth lock
	next     uint32       // next global slot index
}

// NewStore creates a segment store for batch slots per segment. The caller
// validates batch > 0 and a non-zero-sized element type.
func NewStore[T any](batch int, alignToCacheLine bool) *Store[T] {
	return &Store[T]{
		batch:  batch,
		stride: strideFor[T](alignToCacheLine),
	}
}

// strideFor returns the slot spacing in elements. Widening to
// lcm(size, cacheline)/size makes every slot boundary also a line boundary
// relative to the segment base.
func strideFor[T any](alignToCacheLine bool) int {
	if !alignToCacheLine {
		return 1
	}
	size := unsafe.Sizeof(*new(T))
	if size >= CacheLineBytes && size%CacheLineBytes == 0 {
		return 1
	}
	g := gcd(size, CacheLineBytes)
	return int(CacheLineBytes / g)
}

func gcd(a, b uintptr) uintptr {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Grow allocates exactly one new segment and returns its slots in layout
// order. The returned pointers never move.
func (s *Store[T]) Grow() []Slot[T] {
	elems := make([]T, s.batch*s.stride+s.padding())
	first := alignedStart(elems, s.stride)

	slots := make([]Slot[T], s.batch)
	for i := 0; i < s.batch; i++ {
		slots[i] = Slot[T]{
			Ptr:   &elems[first+i*s.stride],
			Index: s.next + uint32(i),
		}
	}

	s.segments = append(s.segments, segment[T]{elems: elems, first: first})
	s.count.Store(int32(len(s.segments)))
	s.next += uint32(s.batch)
	return slots
}

// padding returns the extra elements over-allocated per segment so that a
// cache-line-aligned base can be found within the first stride.
func (s *Store[T]) padding() int {
	if s.stride == 1 {
		return 0
	}
	return s.stride
}

// alignedStart returns the first element index whose address sits on a
// cache-line boundary, or 0 when no such index exists within one stride.
func alignedStart[T any](elems []T, stride int) int {
	if stride == 1 || len(elems) == 0 {
		return 0
	}
	for i := 0; i < stride; i++ {
		if uintptr(unsafe.Pointer(&elems[i]))%CacheLineBytes == 0 {
			return i
		}
	}
	return 0
}

// Segments returns the number of segments allocated so far.
func (s *Store[T]) Segments() int {
	return int(s.count.Load())
}

// SlotsPerSegment returns the configured batch size.
func (s *Store[T]) SlotsPerSegment() int {
	return s.batch
}

// Capacity returns the total number of slots across all segments.
func (s *Store[T]) Capacity() int {
	return s.Segments() * s.batch
}

// SlotBytes returns the per-slot stride in bytes.
func (s *Store[T]) SlotBytes() uintptr {
	return uintptr(s.stride) * unsafe.Sizeof(*new(T))
}

// SegmentBytes returns the bytes reserved by one segment allocation.
func (s *Store[T]) SegmentBytes() uintptr {
	return uintptr(s.batch*s.stride+s.padding()) * unsafe.Sizeof(*new(T))
}

// BytesReserved returns the total bytes reserved across all segments.
func (s *Store[T]) BytesReserved() uintptr {
	return uintptr(s.Segments()) * s.SegmentBytes()
}

// Release drops every segment. All slot pointers become garbage the moment
// the caller lets go of them; the pool only calls this from Close after the
// outstanding-handle check.
func (s *Store[T]) Release() {
	s.segments = nil
	s.count.Store(0)
}
