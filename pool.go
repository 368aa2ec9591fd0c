package poolgo

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/poolgo/internal/freelist"
	"github.com/hupe1980/poolgo/internal/occupancy"
	"github.com/hupe1980/poolgo/internal/slab"
)

// Pool is a concurrent, non-relocating object pool for values of type T.
// Storage is allocated in fixed-size segments that are never resized or
// moved, so a slot address handed out once stays valid until the pool is
// closed. Freed slots are recycled through a lock-free registry instead of
// being returned to the runtime.
//
// All methods are safe for concurrent use. The pool is shareable across
// goroutines to the same extent its element type is: handing values of T to
// other goroutines through the pool is subject to the usual Go rules for T
// itself.
type Pool[T any] struct {
	store *slab.Store[T]
	free  freelist.Stack[slab.Slot[T]]

	// growMu serializes segment allocation. It is taken only when the free
	// registry appears empty.
	growMu sync.Mutex

	tracker *occupancy.Tracker // nil unless occupancy tracking is enabled
	opts    options

	live     atomic.Int64
	inserts  atomic.Uint64
	releases atomic.Uint64
	growths  atomic.Uint64
	closed   atomic.Bool
}

// New creates a pool for values of type T.
//
// Construction fails for a non-positive batch size and for zero-sized
// element types; see the errors ErrInvalidBatchSize and ErrZeroSizedType.
func New[T any](opts ...Option) (*Pool[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.batchSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, o.batchSize)
	}
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return nil, ErrZeroSizedType
	}

	p := &Pool[T]{
		store: slab.NewStore[T](o.batchSize, o.alignToCacheLine),
		opts:  o,
	}
	if o.trackOccupancy {
		p.tracker = occupancy.NewTracker()
	}
	return p, nil
}

// Insert stores value in the pool and returns the Handle that owns its slot.
// The fast path pops a recycled slot from the free registry without locking;
// only when the registry is empty does the pool take the growth lock and
// allocate one new segment.
func (p *Pool[T]) Insert(value T) (*Handle[T], error) {
	return p.InsertContext(context.Background(), value)
}

// InsertContext is Insert with a context. The context is consulted only on
// the growth slow path, where a resource controller may block on its growth
// limiter; the lock-free fast path never observes it.
func (p *Pool[T]) InsertContext(ctx context.Context, value T) (*Handle[T], error) {
	// Count the insert as live before checking closed. Close checks live
	// after setting closed, so one of the two always observes the other:
	// either this insert sees the pool closed and backs off, or Close sees
	// the live count and refuses to release storage under the insert.
	p.live.Add(1)
	if p.closed.Load() {
		p.live.Add(-1)
		return nil, ErrClosed
	}

	slot, ok := p.free.TryPop()
	if !ok {
		var err error
		slot, err = p.grow(ctx)
		if err != nil {
			p.live.Add(-1)
			p.opts.logger.LogGrowFailed(ctx, err)
			return nil, err
		}
	}

	*slot.Ptr = value
	if p.tracker != nil {
		p.tracker.Add(slot.Index)
	}
	p.inserts.Add(1)

	return &Handle[T]{pool: p, slot: slot}, nil
}

// grow allocates one segment, claims its first slot for the caller and
// seeds the free registry with the rest.
func (p *Pool[T]) grow(ctx context.Context) (slab.Slot[T], error) {
	p.growMu.Lock()
	defer p.growMu.Unlock()

	// Another inserter may have grown the pool while this one waited for
	// the lock. Re-check the registry once so racing inserters produce one
	// segment, not one each.
	if slot, ok := p.free.TryPop(); ok {
		return slot, nil
	}

	// Reserve the memory before consuming a growth token, so a
	// budget-rejected insert does not burn the token the next grower needs.
	segmentBytes := int64(p.store.SegmentBytes())
	if err := p.opts.controller.TryAcquireMemory(segmentBytes); err != nil {
		return slab.Slot[T]{}, err
	}
	if err := p.opts.controller.WaitGrowth(ctx); err != nil {
		p.opts.controller.ReleaseMemory(segmentBytes)
		return slab.Slot[T]{}, err
	}

	slots := p.store.Grow()
	for _, s := range slots[1:] {
		p.free.Push(s)
	}
	p.growths.Add(1)
	p.opts.logger.LogGrow(ctx, p.store.Segments(), p.store.SlotsPerSegment(), segmentBytes)

	return slots[0], nil
}

// releaseSlot returns a vacated slot to the free registry. Called only from
// Handle release and recovery; the slot has already been cleared.
func (p *Pool[T]) releaseSlot(slot slab.Slot[T]) {
	if p.tracker != nil {
		p.tracker.Remove(slot.Index)
	}
	p.free.Push(slot)
	p.releases.Add(1)
	p.live.Add(-1)
}

// Live returns the number of outstanding handles. Inserts currently in
// flight are counted while they run.
func (p *Pool[T]) Live() int64 {
	return p.live.Load()
}

// Occupied returns the live slot indices in ascending order. It returns nil
// unless the pool was built with WithOccupancyTracking.
func (p *Pool[T]) Occupied() []uint32 {
	if p.tracker == nil {
		return nil
	}
	return p.tracker.Snapshot()
}

// Close tears the pool down and releases its segments. It refuses to run
// while handles are outstanding and returns ErrHandlesOutstanding instead;
// the pool remains usable in that case. Closing an already closed pool is a
// no-op. Inserts racing with a successful Close observe ErrClosed; a Close
// racing with a winning insert refuses and leaves the pool open.
func (p *Pool[T]) Close() error {
	p.growMu.Lock()
	defer p.growMu.Unlock()

	if p.closed.Load() {
		return nil
	}

	// Set closed before checking live: an insert that slipped past the
	// closed check has already raised the live count, so it shows up here
	// and the close is refused.
	p.closed.Store(true)
	if live := p.live.Load(); live > 0 {
		p.closed.Store(false)
		p.opts.logger.LogLeakRefused(live)
		return fmt.Errorf("%w: %d live", ErrHandlesOutstanding, live)
	}

	segments := p.store.Segments()
	reserved := int64(p.store.BytesReserved())
	p.store.Release()
	p.free.Reset() // slots in the registry would otherwise pin the segments
	p.opts.controller.ReleaseMemory(reserved)
	p.opts.logger.LogClose(segments, reserved)
	return nil
}
